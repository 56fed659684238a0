// Package cpt holds the conditional probability tables of a belief network.
//
// Tables are assembled with a Builder, one per node, either from explicit rows
// (Assign) or from the heuristic Policy (Generate), and then frozen into a
// read-only Store that inference workers share without locking.
//
// # Row layout
//
// A node with parents p1..pk has one row per combination of parent states.
// Rows are enumerated lexicographically over parent state indexes with the
// first parent most significant, so the last parent varies fastest. For
// `cough` with parents (cancer, pneumonia) the rows are:
//
//	0: cancer=yes pneumonia=yes
//	1: cancer=yes pneumonia=no
//	2: cancer=no  pneumonia=yes
//	3: cancer=no  pneumonia=no
//
// Each row is a distribution over the node's own states and must sum to 1
// within RowSumTolerance.
//
// # Heuristic tables
//
// Generated tables follow a deliberately simple rule. A root gets
// [baseline, 1-baseline]. A child gets Policy.ActiveRow for every row except
// the one where all parents sit at their negative (last) state, which gets
// Policy.QuietRow. The rule ignores how many parents are positive; it is kept
// as is so that generated networks stay comparable between releases.
package cpt
