package cpt

import (
	"fmt"

	"github.com/specialistvlad/elevendx/internal/dag"
)

// Builder collects one table per node of a graph. It is not safe for
// concurrent use; the Store it produces is.
type Builder struct {
	graph  *dag.Graph
	policy Policy
	tables []*Table
}

// NewBuilder returns a Builder for g using policy p for generated tables.
func NewBuilder(g *dag.Graph, p Policy) *Builder {
	return &Builder{
		graph:  g,
		policy: p,
		tables: make([]*Table, g.Len()),
	}
}

func (b *Builder) emptyTable(id string) (*dag.Node, *Table, error) {
	n, ok := b.graph.Node(id)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	sizes := make([]int, 0, len(n.ParentIndexes()))
	for _, p := range n.ParentIndexes() {
		sizes = append(sizes, b.graph.At(p).NumStates())
	}
	return n, newTable(n.ID(), n.NumStates(), sizes), nil
}

// Assign installs an explicit table for id. On error the builder keeps
// whatever table id had before.
func (b *Builder) Assign(id string, rows [][]float64) error {
	n, t, err := b.emptyTable(id)
	if err != nil {
		return err
	}
	if len(rows) != t.rows {
		return &ShapeError{Node: id, Row: -1, Reason: fmt.Sprintf("has %d rows, want %d", len(rows), t.rows)}
	}
	for i, row := range rows {
		if len(row) != t.states {
			return &ShapeError{Node: id, Row: i, Reason: fmt.Sprintf("has %d entries, want %d", len(row), t.states)}
		}
		if err := checkRow(row); err != nil {
			return &ShapeError{Node: id, Row: i, Reason: err.Error()}
		}
		copy(t.Row(i), row)
	}
	b.tables[n.Index()] = t
	return nil
}

// Generate installs the heuristic table for id.
func (b *Builder) Generate(id string) error {
	n, t, err := b.emptyTable(id)
	if err != nil {
		return err
	}
	if n.IsRoot() {
		baseline, ok := n.Baseline()
		if !ok {
			baseline = b.policy.DefaultBaseline
		}
		copy(t.Row(0), rootRow(baseline, t.states))
	} else {
		for i := 0; i < t.rows; i++ {
			copy(t.Row(i), b.policy.childRow(i, t.rows, t.states))
		}
	}
	t.generated = true
	b.tables[n.Index()] = t
	return nil
}

// Has reports whether id already has a table.
func (b *Builder) Has(id string) bool {
	i, ok := b.graph.Index(id)
	return ok && b.tables[i] != nil
}

// Freeze returns the finished Store. Every node must have a table.
func (b *Builder) Freeze() (*Store, error) {
	for i, t := range b.tables {
		if t == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingTable, b.graph.At(i).ID())
		}
	}
	tables := make([]*Table, len(b.tables))
	copy(tables, b.tables)
	return &Store{graph: b.graph, tables: tables}, nil
}
