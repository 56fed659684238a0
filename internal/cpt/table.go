package cpt

import "slices"

// Table is the frozen CPT of one node. Rows are stored flat.
type Table struct {
	node      string
	states    int
	rows      int
	strides   []int
	data      []float64
	generated bool
}

func newTable(node string, states int, parentSizes []int) *Table {
	t := &Table{
		node:    node,
		states:  states,
		rows:    1,
		strides: make([]int, len(parentSizes)),
	}
	for i := len(parentSizes) - 1; i >= 0; i-- {
		t.strides[i] = t.rows
		t.rows *= parentSizes[i]
	}
	t.data = make([]float64, t.rows*t.states)
	return t
}

// Node returns the id of the node the table belongs to.
func (t *Table) Node() string { return t.node }

// NumRows returns the number of parent combinations.
func (t *Table) NumRows() int { return t.rows }

// NumStates returns the size of the node's own domain.
func (t *Table) NumStates() int { return t.states }

// Generated reports whether the table came from the heuristic policy.
func (t *Table) Generated() bool { return t.generated }

// Row returns row i. The slice is shared and must not be modified.
func (t *Table) Row(i int) []float64 {
	return t.data[i*t.states : (i+1)*t.states]
}

// RowIndex maps parent state indexes, in parent order, to a row number.
func (t *Table) RowIndex(parentStates []int) int {
	idx := 0
	for i, s := range parentStates {
		idx += s * t.strides[i]
	}
	return idx
}

// Rows returns a copy of the table as a slice of rows.
func (t *Table) Rows() [][]float64 {
	out := make([][]float64, t.rows)
	for i := range out {
		out[i] = slices.Clone(t.Row(i))
	}
	return out
}
