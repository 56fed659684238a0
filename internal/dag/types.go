package dag

import (
	"fmt"
	"slices"
	"strings"
)

// Role tags what a node stands for in the diagnostic model.
type Role int

const (
	// RoleSymptom is an observable finding (also called intermediate).
	RoleSymptom Role = iota
	// RoleRisk is a risk factor, usually a root node.
	RoleRisk
	// RoleDisease is a target whose posterior the caller wants.
	RoleDisease
)

// ParseRole accepts both the clinical and the structural spelling of a role.
// An empty string means symptom.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "symptom", "intermediate":
		return RoleSymptom, nil
	case "risk", "root":
		return RoleRisk, nil
	case "disease", "target":
		return RoleDisease, nil
	default:
		return RoleSymptom, fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string {
	switch r {
	case RoleRisk:
		return "risk"
	case RoleDisease:
		return "disease"
	default:
		return "symptom"
	}
}

// Node is a single vertex of the belief network. Nodes are created by Build
// and never change afterwards; accessors hand out copies of slices unless
// documented otherwise.
type Node struct {
	id        string
	index     int
	states    []string
	parents   []string
	parentIdx []int
	role      Role
	category  string
	baseline  *float64
}

// ID returns the node identifier.
func (n *Node) ID() string { return n.id }

// Index returns the node's position in declaration order.
func (n *Node) Index() int { return n.index }

// States returns a copy of the node's ordered domain.
func (n *Node) States() []string { return slices.Clone(n.states) }

// NumStates returns the size of the node's domain.
func (n *Node) NumStates() int { return len(n.states) }

// State returns the i-th domain value.
func (n *Node) State(i int) string { return n.states[i] }

// PositiveState is the first declared state (`yes`, `abnormal`, `high`).
func (n *Node) PositiveState() string { return n.states[0] }

// NegativeState is the last declared state (`no`, `normal`, `low`).
func (n *Node) NegativeState() string { return n.states[len(n.states)-1] }

// StateIndex returns the position of value in the node's domain, or -1.
func (n *Node) StateIndex(value string) int { return slices.Index(n.states, value) }

// Parents returns a copy of the ordered parent ids.
func (n *Node) Parents() []string { return slices.Clone(n.parents) }

// ParentIndexes returns the declaration indexes of the parents in table
// order. The slice is shared and must not be modified.
func (n *Node) ParentIndexes() []int { return n.parentIdx }

// IsRoot reports whether the node has no parents.
func (n *Node) IsRoot() bool { return len(n.parents) == 0 }

// Role returns the node's role tag.
func (n *Node) Role() Role { return n.role }

// Category returns the optional grouping label.
func (n *Node) Category() string { return n.category }

// Baseline returns the explicit root prior, if one was declared.
func (n *Node) Baseline() (float64, bool) {
	if n.baseline == nil {
		return 0, false
	}
	return *n.baseline, true
}

// Graph is the frozen belief-network structure.
type Graph struct {
	name     string
	nodes    []*Node
	byID     map[string]*Node
	children [][]int
	order    []int
}
