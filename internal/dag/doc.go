// Package dag is the structural layer of the belief network. It takes the
// node and edge records of a config.Network, validates them, and freezes them
// into an immutable Graph: node lookup, parent and child lists, state domains
// and a topological order that every sampling pass walks.
//
// A Graph is built once and then shared read-only by any number of concurrent
// inference calls. It carries no inference state and needs no locking.
//
// Build rejects the whole definition on the first structural problem. The
// errors are typed so that callers can tell a typo in an edge
// (ErrUnknownNodeReference) from a modelling mistake (ErrCyclicGraph):
//
//	g, err := dag.Build(ctx, network.Nodes, network.Edges)
//	var cycle *dag.CycleError
//	if errors.As(err, &cycle) {
//	    fmt.Println("cycle through", strings.Join(cycle.Path, " -> "))
//	}
package dag
