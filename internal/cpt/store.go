package cpt

import (
	"context"
	"fmt"

	"github.com/specialistvlad/elevendx/internal/config"
	"github.com/specialistvlad/elevendx/internal/ctxlog"
	"github.com/specialistvlad/elevendx/internal/dag"
)

// Store is the read-only set of tables for a graph.
type Store struct {
	graph  *dag.Graph
	tables []*Table
}

// Graph returns the graph the store was built for.
func (s *Store) Graph() *dag.Graph { return s.graph }

// At returns the table of the node at declaration index i.
func (s *Store) At(i int) *Table { return s.tables[i] }

// Table returns the table of id.
func (s *Store) Table(id string) (*Table, bool) {
	i, ok := s.graph.Index(id)
	if !ok {
		return nil, false
	}
	return s.tables[i], true
}

// RowIndex returns the row of node i selected by parent state indexes given
// in parent order.
func (s *Store) RowIndex(i int, parentStates []int) int {
	return s.tables[i].RowIndex(parentStates)
}

// Row returns the row of node i selected by parentStates (parent order).
func (s *Store) Row(i int, parentStates []int) []float64 {
	t := s.tables[i]
	return t.Row(t.RowIndex(parentStates))
}

// RowFor returns the row of node i given a full assignment indexed by
// declaration order. This is the sampling hot path.
func (s *Store) RowFor(i int, assignment []int) []float64 {
	t := s.tables[i]
	idx := 0
	for j, p := range s.graph.At(i).ParentIndexes() {
		idx += assignment[p] * t.strides[j]
	}
	return t.Row(idx)
}

// Generated returns the ids of nodes whose tables came from the policy.
func (s *Store) Generated() []string {
	var out []string
	for _, t := range s.tables {
		if t.generated {
			out = append(out, t.node)
		}
	}
	return out
}

// Populate builds a Store for g. A definition that carries an explicit table
// gets it; every other node is generated from policy.
func Populate(ctx context.Context, g *dag.Graph, defs []*config.NodeDef, policy Policy) (*Store, error) {
	logger := ctxlog.FromContext(ctx)
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid heuristic policy: %w", err)
	}

	b := NewBuilder(g, policy)
	for _, def := range defs {
		if def == nil || len(def.CPT) == 0 {
			continue
		}
		if err := b.Assign(def.ID, def.CPT); err != nil {
			return nil, err
		}
	}

	var generated []string
	for _, n := range g.Nodes() {
		if b.Has(n.ID()) {
			continue
		}
		if err := b.Generate(n.ID()); err != nil {
			return nil, err
		}
		generated = append(generated, n.ID())
	}
	if len(generated) > 0 {
		logger.Debug("Generated heuristic probability tables.", "count", len(generated), "nodes", generated)
	}
	return b.Freeze()
}
