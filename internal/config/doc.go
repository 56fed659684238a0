// Package config defines the format-agnostic representation of a belief
// network definition: the node and edge records every graph source produces
// and the graph builder consumes.
//
// Sources (HCL files, the embedded networks, the remote Supabase tables) all
// translate into a *Network. Nothing in this package validates the graph
// structure itself; that is the job of package dag.
package config
