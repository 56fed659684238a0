// Package nodeid defines the canonical form of belief-network node
// identifiers and of `id=value` observation strings.
//
// Identifiers are lower-case snake case (`cough_dry`, `xray`). They appear in
// network files, remote tables, evidence maps and command-line flags, and all
// of those entry points funnel through Parse so that a node is spelled the
// same way everywhere.
package nodeid
