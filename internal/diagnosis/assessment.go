package diagnosis

import (
	"cmp"
	"slices"
)

// Assessment is the answer to one diagnostic query.
type Assessment struct {
	RunID    string            `json:"run_id"`
	Evidence map[string]string `json:"evidence"`
	// Percentages holds P(disease = first state) * 100 for every target.
	Percentages map[string]float64 `json:"percentages"`
	// NextQuestion is empty when Done is set.
	NextQuestion string `json:"next_question,omitempty"`
	Done         bool   `json:"done"`
	Degenerate   bool   `json:"degenerate,omitempty"`
	Diagnostic   string `json:"diagnostic,omitempty"`
	Cached       bool   `json:"cached"`
	Trials       int    `json:"trials"`
}

// Finding is one ranked disease.
type Finding struct {
	ID      string  `json:"id"`
	Percent float64 `json:"percent"`
}

// Ranked returns the targets sorted by probability, highest first, ties by
// id.
func (a *Assessment) Ranked() []Finding {
	out := make([]Finding, 0, len(a.Percentages))
	for id, p := range a.Percentages {
		out = append(out, Finding{ID: id, Percent: p})
	}
	slices.SortFunc(out, func(x, y Finding) int {
		if c := cmp.Compare(y.Percent, x.Percent); c != 0 {
			return c
		}
		return cmp.Compare(x.ID, y.ID)
	})
	return out
}
