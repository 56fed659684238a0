package cpt

import (
	"fmt"
	"math"
)

// RowSumTolerance is how far a row may drift from summing to exactly 1.
const RowSumTolerance = 1e-6

// Policy parameterises the heuristic generator.
type Policy struct {
	// DefaultBaseline is the positive-state prior of a root that declares
	// no baseline of its own.
	DefaultBaseline float64
	// ActiveRow is used for every parent combination with at least one
	// parent away from its negative state. Index 0 is the positive mass.
	ActiveRow []float64
	// QuietRow is used for the all-negative parent combination.
	QuietRow []float64
}

// DefaultPolicy returns the stock generator settings.
func DefaultPolicy() Policy {
	return Policy{
		DefaultBaseline: 0.1,
		ActiveRow:       []float64{0.7, 0.3},
		QuietRow:        []float64{0.01, 0.99},
	}
}

// Validate checks that the policy can produce valid rows.
func (p Policy) Validate() error {
	if p.DefaultBaseline < 0 || p.DefaultBaseline > 1 || math.IsNaN(p.DefaultBaseline) {
		return fmt.Errorf("default baseline %v is outside [0,1]", p.DefaultBaseline)
	}
	for name, row := range map[string][]float64{"active": p.ActiveRow, "quiet": p.QuietRow} {
		if len(row) != 2 {
			return fmt.Errorf("%s row must have two entries, got %d", name, len(row))
		}
		if err := checkRow(row); err != nil {
			return fmt.Errorf("%s row: %w", name, err)
		}
	}
	return nil
}

// spread turns a positive-state probability into a row over k states, the
// remaining mass split evenly across the non-positive states.
func spread(positive float64, k int) []float64 {
	row := make([]float64, k)
	row[0] = positive
	rest := (1 - positive) / float64(k-1)
	for i := 1; i < k; i++ {
		row[i] = rest
	}
	return row
}

// rootRow is the generated prior of a parentless node.
func rootRow(baseline float64, k int) []float64 {
	return spread(baseline, k)
}

// childRow is the generated row at index row of a table with rows rows. The
// last row is the all-negative combination.
func (p Policy) childRow(row, rows, k int) []float64 {
	if row == rows-1 {
		return spread(p.QuietRow[0], k)
	}
	return spread(p.ActiveRow[0], k)
}

func checkRow(row []float64) error {
	sum := 0.0
	for _, v := range row {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("probability %v is not finite", v)
		}
		if v < 0 || v > 1 {
			return fmt.Errorf("probability %v is outside [0,1]", v)
		}
		sum += v
	}
	if math.Abs(sum-1) > RowSumTolerance {
		return fmt.Errorf("row sums to %v, want 1", sum)
	}
	return nil
}
