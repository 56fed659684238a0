package nodeid

import (
	"fmt"
	"regexp"
	"strings"
)

// idRegex matches a single node identifier, e.g. `fever` or `phlegm_rust`.
var idRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// stateRegex matches a domain value. States are a little more permissive than
// ids so that values like `high-grade` survive.
var stateRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Parse validates a raw identifier and returns its canonical form.
// Surrounding whitespace is trimmed; anything else must already be canonical.
func Parse(rawID string) (string, error) {
	id := strings.TrimSpace(rawID)
	if id == "" {
		return "", fmt.Errorf("identifier cannot be empty")
	}
	if !idRegex.MatchString(id) {
		return "", fmt.Errorf("invalid identifier %q: must match %s", rawID, idRegex.String())
	}
	return id, nil
}

// Valid reports whether id is already in canonical form.
func Valid(id string) bool {
	return idRegex.MatchString(id)
}

// ParseState validates a domain value.
func ParseState(rawState string) (string, error) {
	state := strings.TrimSpace(rawState)
	if state == "" {
		return "", fmt.Errorf("state cannot be empty")
	}
	if !stateRegex.MatchString(state) {
		return "", fmt.Errorf("invalid state %q: must match %s", rawState, stateRegex.String())
	}
	return state, nil
}

// ParseAssignment splits an observation of the form `id=value`.
// Only the syntax is checked here; whether the value belongs to the node's
// domain is decided against a built graph.
func ParseAssignment(raw string) (id, value string, err error) {
	left, right, ok := strings.Cut(raw, "=")
	if !ok {
		return "", "", fmt.Errorf("invalid observation %q: expected id=value", raw)
	}
	if id, err = Parse(left); err != nil {
		return "", "", fmt.Errorf("invalid observation %q: %w", raw, err)
	}
	if value, err = ParseState(right); err != nil {
		return "", "", fmt.Errorf("invalid observation %q: %w", raw, err)
	}
	return id, value, nil
}

// ParseAssignments parses a list of `id=value` strings into a map. A node
// observed twice keeps its last value, mirroring how repeated CLI flags behave.
func ParseAssignments(raw []string) (map[string]string, error) {
	out := make(map[string]string, len(raw))
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, value, err := ParseAssignment(part)
			if err != nil {
				return nil, err
			}
			out[id] = value
		}
	}
	return out, nil
}
