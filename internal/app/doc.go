// Package app contains the core application logic. It defines the App
// struct, its configuration, and the lifecycle of the diagnostic model,
// decoupled from any specific entrypoint like a CLI or server.
package app
