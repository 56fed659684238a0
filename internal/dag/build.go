package dag

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/elevendx/internal/config"
	"github.com/specialistvlad/elevendx/internal/ctxlog"
	"github.com/specialistvlad/elevendx/internal/nodeid"
)

// Build validates node and edge records and freezes them into a Graph.
//
// A node's parent order is its own Parents list followed by edge records in
// declaration order, duplicates dropped. That order defines the row layout of
// the node's conditional probability table.
func Build(ctx context.Context, nodes []*config.NodeDef, edges []*config.EdgeDef) (*Graph, error) {
	return BuildNamed(ctx, "", nodes, edges)
}

// FromNetwork builds the graph of a loaded network definition.
func FromNetwork(ctx context.Context, n *config.Network) (*Graph, error) {
	if n == nil {
		return nil, ErrEmptyGraph
	}
	return BuildNamed(ctx, n.Name, n.Nodes, n.Edges)
}

// BuildNamed is Build with a network name attached to the result.
func BuildNamed(ctx context.Context, name string, nodes []*config.NodeDef, edges []*config.EdgeDef) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.", "network", name)

	if len(nodes) == 0 {
		return nil, ErrEmptyGraph
	}

	g := &Graph{
		name:  name,
		nodes: make([]*Node, 0, len(nodes)),
		byID:  make(map[string]*Node, len(nodes)),
	}

	// First pass: create nodes.
	for _, def := range nodes {
		n, err := newNode(def, len(g.nodes))
		if err != nil {
			return nil, err
		}
		if _, exists := g.byID[n.id]; exists {
			return nil, &DefinitionError{Node: n.id, Reason: "declared more than once"}
		}
		g.nodes = append(g.nodes, n)
		g.byID[n.id] = n
	}
	logger.Debug("Build: Node creation complete.", "node_count", len(g.nodes))

	// Second pass: link parents.
	if err := g.link(nodes, edges); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node linking complete.")

	if err := g.detectCycles(); err != nil {
		return nil, err
	}
	logger.Debug("Build: Cycle detection passed.")

	g.order = g.topologicalOrder()
	logger.Debug("Build: Graph construction successful.", "order", g.TopologicalOrder())
	return g, nil
}

func newNode(def *config.NodeDef, index int) (*Node, error) {
	if def == nil {
		return nil, &DefinitionError{Reason: fmt.Sprintf("node #%d is nil", index)}
	}
	id, err := nodeid.Parse(def.ID)
	if err != nil {
		return nil, &DefinitionError{Node: def.ID, Reason: err.Error()}
	}
	if len(def.States) < 2 {
		return nil, &DefinitionError{Node: id, Reason: "a node needs at least two states"}
	}
	states := make([]string, 0, len(def.States))
	for _, raw := range def.States {
		s, err := nodeid.ParseState(raw)
		if err != nil {
			return nil, &DefinitionError{Node: id, Reason: err.Error()}
		}
		if slices.Contains(states, s) {
			return nil, &DefinitionError{Node: id, Reason: fmt.Sprintf("state %q listed twice", s)}
		}
		states = append(states, s)
	}
	role, err := ParseRole(def.Role)
	if err != nil {
		return nil, &DefinitionError{Node: id, Reason: err.Error()}
	}
	n := &Node{
		id:       id,
		index:    index,
		states:   states,
		role:     role,
		category: def.Category,
	}
	if def.Baseline != nil {
		b := *def.Baseline
		if b < 0 || b > 1 {
			return nil, &DefinitionError{Node: id, Reason: fmt.Sprintf("baseline %v is outside [0,1]", b)}
		}
		n.baseline = &b
	}
	return n, nil
}

func (g *Graph) link(defs []*config.NodeDef, edges []*config.EdgeDef) error {
	g.children = make([][]int, len(g.nodes))
	addEdge := func(parent, child string) error {
		p, ok := g.byID[parent]
		if !ok {
			return &UnknownNodeError{Parent: parent, Child: child, Missing: parent}
		}
		c, ok := g.byID[child]
		if !ok {
			return &UnknownNodeError{Parent: parent, Child: child, Missing: child}
		}
		if p == c {
			return &CycleError{Path: []string{p.id, p.id}}
		}
		if slices.Contains(c.parentIdx, p.index) {
			return nil
		}
		c.parents = append(c.parents, p.id)
		c.parentIdx = append(c.parentIdx, p.index)
		g.children[p.index] = append(g.children[p.index], c.index)
		return nil
	}

	for i, def := range defs {
		for _, parent := range def.Parents {
			if err := addEdge(parent, g.nodes[i].id); err != nil {
				return err
			}
		}
	}
	for i, e := range edges {
		if e == nil {
			return &DefinitionError{Reason: fmt.Sprintf("edge #%d is nil", i)}
		}
		if err := addEdge(e.Parent, e.Child); err != nil {
			return err
		}
	}
	for _, kids := range g.children {
		slices.Sort(kids)
	}
	return nil
}

// topologicalOrder is Kahn's algorithm with ties broken by declaration
// order, so the result is deterministic for a given definition.
func (g *Graph) topologicalOrder() []int {
	indegree := make([]int, len(g.nodes))
	for _, n := range g.nodes {
		indegree[n.index] = len(n.parentIdx)
	}
	var ready []int
	for i, d := range indegree {
		if d == 0 {
			ready = append(ready, i)
		}
	}
	order := make([]int, 0, len(g.nodes))
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)
		for _, c := range g.children[next] {
			indegree[c]--
			if indegree[c] == 0 {
				pos, _ := slices.BinarySearch(ready, c)
				ready = slices.Insert(ready, pos, c)
			}
		}
	}
	return order
}
