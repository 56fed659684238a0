package config

import (
	"slices"
	"strings"
)

// Network is the unified, format-agnostic representation of a complete
// belief network definition.
type Network struct {
	Name string
	// DefaultBaseline overrides the heuristic root prior for nodes that
	// declare neither a baseline nor an explicit table.
	DefaultBaseline *float64
	Nodes           []*NodeDef
	Edges           []*EdgeDef
}

// NodeDef is the format-agnostic representation of one node record.
type NodeDef struct {
	ID       string
	States   []string
	Role     string
	Category string
	// Baseline is the prior of the first (positive) state for root nodes
	// whose table is generated.
	Baseline *float64
	// Parents lists parent ids in table order. Edge records naming this node
	// as child are appended after these.
	Parents []string
	// CPT is the explicit table, one row per parent combination. Nil means
	// the table is generated heuristically.
	CPT [][]float64

	// Caller-side metadata. The inference core never reads these.
	Label    string
	Question string
	Keywords []string
}

// EdgeDef is a directed parent -> child edge record.
type EdgeDef struct {
	Parent string
	Child  string
}

// Node returns the definition with the given id.
func (n *Network) Node(id string) (*NodeDef, bool) {
	for _, def := range n.Nodes {
		if def.ID == id {
			return def, true
		}
	}
	return nil, false
}

// Merge appends the nodes and edges of other into n. The first non-empty
// name and default baseline win.
func (n *Network) Merge(other *Network) {
	if other == nil {
		return
	}
	if n.Name == "" {
		n.Name = other.Name
	}
	if n.DefaultBaseline == nil {
		n.DefaultBaseline = other.DefaultBaseline
	}
	n.Nodes = append(n.Nodes, other.Nodes...)
	n.Edges = append(n.Edges, other.Edges...)
}

// Clone returns a deep copy so that callers may hand a network to several
// builders without sharing slices.
func (n *Network) Clone() *Network {
	if n == nil {
		return nil
	}
	out := &Network{Name: n.Name}
	if n.DefaultBaseline != nil {
		b := *n.DefaultBaseline
		out.DefaultBaseline = &b
	}
	for _, def := range n.Nodes {
		c := *def
		c.States = slices.Clone(def.States)
		c.Parents = slices.Clone(def.Parents)
		c.Keywords = slices.Clone(def.Keywords)
		if def.Baseline != nil {
			b := *def.Baseline
			c.Baseline = &b
		}
		if def.CPT != nil {
			c.CPT = make([][]float64, len(def.CPT))
			for i, row := range def.CPT {
				c.CPT[i] = slices.Clone(row)
			}
		}
		out.Nodes = append(out.Nodes, &c)
	}
	for _, e := range n.Edges {
		c := *e
		out.Edges = append(out.Edges, &c)
	}
	return out
}

// Canonicalize trims surrounding whitespace from every identifier and state in
// place, so that table keys, edges and evidence all agree on one spelling.
func (n *Network) Canonicalize() {
	if n == nil {
		return
	}
	for _, def := range n.Nodes {
		def.ID = strings.TrimSpace(def.ID)
		def.Role = strings.TrimSpace(def.Role)
		trimAll(def.States)
		trimAll(def.Parents)
	}
	for _, e := range n.Edges {
		e.Parent = strings.TrimSpace(e.Parent)
		e.Child = strings.TrimSpace(e.Child)
	}
}

func trimAll(values []string) {
	for i, v := range values {
		values[i] = strings.TrimSpace(v)
	}
}
