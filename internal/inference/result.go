package inference

import (
	"slices"

	"github.com/specialistvlad/elevendx/internal/dag"
)

// Result holds the marginals of one Infer call.
type Result struct {
	RunID       string
	Trials      int
	TotalWeight float64
	// Degenerate is set when the total weight collapsed; every marginal is
	// then zero and Diagnostic explains why.
	Degenerate bool
	Diagnostic error
	Evidence   map[string]string

	graph     *dag.Graph
	marginals [][]float64
}

// Marginal returns a copy of the distribution of id over its states.
func (r *Result) Marginal(id string) ([]float64, bool) {
	i, ok := r.graph.Index(id)
	if !ok {
		return nil, false
	}
	return slices.Clone(r.marginals[i]), true
}

// Probability returns P(id = value | evidence), zero for unknown pairs.
func (r *Result) Probability(id, value string) float64 {
	n, ok := r.graph.Node(id)
	if !ok {
		return 0
	}
	s := n.StateIndex(value)
	if s < 0 {
		return 0
	}
	return r.marginals[n.Index()][s]
}

// PositiveProbability returns the probability of id's first state.
func (r *Result) PositiveProbability(id string) float64 {
	i, ok := r.graph.Index(id)
	if !ok {
		return 0
	}
	return r.marginals[i][0]
}

// Percentages maps each id to 100 times its positive probability. Unknown
// ids are skipped.
func (r *Result) Percentages(ids []string) map[string]float64 {
	out := make(map[string]float64, len(ids))
	for _, id := range ids {
		if i, ok := r.graph.Index(id); ok {
			out[id] = r.marginals[i][0] * 100
		}
	}
	return out
}

// TargetPercentages is Percentages over the graph's disease nodes.
func (r *Result) TargetPercentages() map[string]float64 {
	return r.Percentages(r.graph.Targets())
}
