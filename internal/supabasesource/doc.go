// Package supabasesource loads a belief network from Supabase tables.
//
// Two tables are read through PostgREST:
//
//	bbn_nodes  id, states, role, category, baseline, parents, cpt,
//	           label, question, keywords, position, network
//	bbn_edges  parent_id, child_id, network
//
// Array columns (states, parents, keywords) are Postgres text[] and cpt is a
// jsonb array of rows. When Options.Network is set both tables are filtered on
// their network column. Nodes are ordered by position, rows without one keep
// the order the server returned.
//
// Every load goes through a circuit breaker so that a flapping database turns
// into a fast ErrUnavailable instead of a pile of slow reloads.
package supabasesource
