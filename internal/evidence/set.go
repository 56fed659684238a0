package evidence

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Schema tells a Set which nodes exist and which values they accept.
type Schema interface {
	Domain(id string) ([]string, bool)
}

// Resolver maps observations onto node and state indexes.
type Resolver interface {
	Len() int
	StateIndex(id, value string) (node, state int, err error)
}

// Set is an immutable collection of node observations.
type Set struct {
	schema Schema
	values map[string]string
}

// New returns an empty Set bound to schema.
func New(schema Schema) *Set {
	return &Set{schema: schema, values: map[string]string{}}
}

// FromMap validates every entry of m and returns them as one Set. Either all
// entries are accepted or none are; every invalid entry is reported.
func FromMap(schema Schema, m map[string]string) (*Set, error) {
	s := New(schema)
	var errs []error
	for _, id := range slices.Sorted(maps.Keys(m)) {
		if err := s.check(id, m[id]); err != nil {
			errs = append(errs, err)
			continue
		}
		s.values[id] = m[id]
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return s, nil
}

func (s *Set) check(id, value string) error {
	domain, ok := s.schema.Domain(id)
	if !ok {
		return &InvalidEvidenceError{Node: id, Value: value, Reason: "unknown node"}
	}
	if !slices.Contains(domain, value) {
		return &InvalidEvidenceError{
			Node:   id,
			Value:  value,
			Reason: fmt.Sprintf("value not in domain %v", domain),
		}
	}
	return nil
}

// Observe returns a copy of s with id set to value. On error s is returned
// untouched alongside the error.
func (s *Set) Observe(id, value string) (*Set, error) {
	if err := s.check(id, value); err != nil {
		return s, err
	}
	next := s.clone()
	next.values[id] = value
	return next, nil
}

// Clear returns a copy of s without an observation for id.
func (s *Set) Clear(id string) *Set {
	if _, ok := s.values[id]; !ok {
		return s
	}
	next := s.clone()
	delete(next.values, id)
	return next
}

func (s *Set) clone() *Set {
	return &Set{schema: s.schema, values: maps.Clone(s.values)}
}

// AsMap returns a copy of the observations.
func (s *Set) AsMap() map[string]string {
	if s == nil {
		return map[string]string{}
	}
	return maps.Clone(s.values)
}

// Len returns the number of observed nodes.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Has reports whether id has been observed.
func (s *Set) Has(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.values[id]
	return ok
}

// Value returns the observed value of id.
func (s *Set) Value(id string) (string, bool) {
	if s == nil {
		return "", false
	}
	v, ok := s.values[id]
	return v, ok
}

// IDs returns the observed node ids, sorted.
func (s *Set) IDs() []string {
	if s == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(s.values))
}

// Key is a canonical encoding of the set, equal for equal sets.
func (s *Set) Key() string {
	ids := s.IDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id + "=" + s.values[id]
	}
	return strings.Join(parts, ",")
}

func (s *Set) String() string { return "{" + s.Key() + "}" }

// Resolve turns the set into one state index per node, -1 for nodes that
// are not observed.
func (s *Set) Resolve(r Resolver) ([]int, error) {
	out := make([]int, r.Len())
	for i := range out {
		out[i] = -1
	}
	for _, id := range s.IDs() {
		node, state, err := r.StateIndex(id, s.values[id])
		if err != nil {
			return nil, &InvalidEvidenceError{Node: id, Value: s.values[id], Reason: err.Error()}
		}
		out[node] = state
	}
	return out, nil
}
