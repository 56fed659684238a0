// Package evidence models the observations a caller has collected so far.
//
// A Set is a persistent value: Observe and Clear return a new Set and never
// touch the receiver, so a snapshot handed to an inference call cannot change
// underneath it. Every entry is checked against a Schema (in practice a
// *dag.Graph) when it is added.
package evidence
