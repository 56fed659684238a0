package dag

import "fmt"

// Name returns the network name the graph was built from.
func (g *Graph) Name() string { return g.name }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns all nodes in declaration order. The slice is a copy; the
// nodes themselves are immutable.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// At returns the node at declaration index i.
func (g *Graph) At(i int) *Node { return g.nodes[i] }

// Node looks up a node by id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// Index returns the declaration index of id.
func (g *Graph) Index(id string) (int, bool) {
	n, ok := g.byID[id]
	if !ok {
		return -1, false
	}
	return n.index, true
}

// Parents returns the ordered parent ids of id.
func (g *Graph) Parents(id string) ([]string, error) {
	n, ok := g.byID[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return n.Parents(), nil
}

// Children returns the ids of the nodes that list id as a parent, in
// declaration order.
func (g *Graph) Children(id string) ([]string, error) {
	n, ok := g.byID[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	out := make([]string, 0, len(g.children[n.index]))
	for _, c := range g.children[n.index] {
		out = append(out, g.nodes[c].id)
	}
	return out, nil
}

// Domain returns the ordered states of id. It satisfies evidence.Schema.
func (g *Graph) Domain(id string) ([]string, bool) {
	n, ok := g.byID[id]
	if !ok {
		return nil, false
	}
	return n.States(), true
}

// StateIndex resolves an observation to (node index, state index).
func (g *Graph) StateIndex(id, value string) (int, int, error) {
	n, ok := g.byID[id]
	if !ok {
		return -1, -1, fmt.Errorf("node not found: %s", id)
	}
	s := n.StateIndex(value)
	if s < 0 {
		return -1, -1, fmt.Errorf("value %q is not in the domain of '%s' %v", value, id, n.states)
	}
	return n.index, s, nil
}

// Order returns the frozen topological order as declaration indexes. The
// slice is shared and must not be modified.
func (g *Graph) Order() []int { return g.order }

// TopologicalOrder returns the frozen topological order as ids.
func (g *Graph) TopologicalOrder() []string {
	out := make([]string, len(g.order))
	for i, idx := range g.order {
		out[i] = g.nodes[idx].id
	}
	return out
}

// NodesWithRole returns the ids of every node tagged r, in declaration order.
func (g *Graph) NodesWithRole(r Role) []string {
	var out []string
	for _, n := range g.nodes {
		if n.role == r {
			out = append(out, n.id)
		}
	}
	return out
}

// Targets returns the disease nodes in declaration order.
func (g *Graph) Targets() []string { return g.NodesWithRole(RoleDisease) }
