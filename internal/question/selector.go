package question

import (
	"math"
	"slices"

	"github.com/specialistvlad/elevendx/internal/dag"
)

// Epsilon clamps probabilities away from 0 and 1 before taking logs.
const Epsilon = 1e-9

// Marginals is the part of an inference result the selector reads.
type Marginals interface {
	PositiveProbability(id string) float64
}

// Observed reports which nodes already have evidence.
type Observed interface {
	Has(id string) bool
}

// Candidate is one askable node with its score.
type Candidate struct {
	ID          string
	Probability float64
	Entropy     float64
}

// Selector chooses questions. The zero value excludes disease nodes.
type Selector struct {
	// Exclude lists roles that are never asked about. Nil means disease.
	Exclude []dag.Role
}

// NewSelector returns a Selector that skips the given roles in addition to
// disease nodes.
func NewSelector(exclude ...dag.Role) *Selector {
	roles := []dag.Role{dag.RoleDisease}
	for _, r := range exclude {
		if !slices.Contains(roles, r) {
			roles = append(roles, r)
		}
	}
	return &Selector{Exclude: roles}
}

func (s *Selector) excluded(r dag.Role) bool {
	if s == nil || s.Exclude == nil {
		return r == dag.RoleDisease
	}
	return slices.Contains(s.Exclude, r)
}

// Next returns the highest-entropy candidate. Ties go to the node declared
// first. It returns "", false when every askable node is observed.
func (s *Selector) Next(g *dag.Graph, observed Observed, m Marginals) (string, bool) {
	best, bestH := "", -1.0
	for _, n := range g.Nodes() {
		if !s.eligible(n, observed) {
			continue
		}
		if h := BinaryEntropy(m.PositiveProbability(n.ID())); h > bestH {
			best, bestH = n.ID(), h
		}
	}
	return best, best != ""
}

// Rank returns every candidate, highest entropy first, ties in declaration
// order.
func (s *Selector) Rank(g *dag.Graph, observed Observed, m Marginals) []Candidate {
	var out []Candidate
	for _, n := range g.Nodes() {
		if !s.eligible(n, observed) {
			continue
		}
		p := m.PositiveProbability(n.ID())
		out = append(out, Candidate{ID: n.ID(), Probability: p, Entropy: BinaryEntropy(p)})
	}
	slices.SortStableFunc(out, func(a, b Candidate) int {
		switch {
		case a.Entropy > b.Entropy:
			return -1
		case a.Entropy < b.Entropy:
			return 1
		}
		return 0
	})
	return out
}

func (s *Selector) eligible(n *dag.Node, observed Observed) bool {
	if s.excluded(n.Role()) {
		return false
	}
	return observed == nil || !observed.Has(n.ID())
}

// BinaryEntropy returns H(p) in bits with p clamped to [Epsilon, 1-Epsilon].
func BinaryEntropy(p float64) float64 {
	if math.IsNaN(p) {
		p = 0
	}
	p = min(max(p, Epsilon), 1-Epsilon)
	return -(p*math.Log2(p) + (1-p)*math.Log2(1-p))
}
