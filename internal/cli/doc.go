// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates flags, the optional YAML file and ELEVENDX_* variables into an
// app.Config and drives the App from cobra commands.
package cli
