package dag

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyGraph is returned when a definition contains no nodes.
	ErrEmptyGraph = errors.New("graph has no nodes")
	// ErrUnknownNodeReference is wrapped by UnknownNodeError.
	ErrUnknownNodeReference = errors.New("unknown node reference")
	// ErrCyclicGraph is wrapped by CycleError.
	ErrCyclicGraph = errors.New("graph contains a cycle")
	// ErrInvalidDefinition is wrapped by DefinitionError.
	ErrInvalidDefinition = errors.New("invalid node definition")
)

// UnknownNodeError reports an edge whose parent or child was never declared.
type UnknownNodeError struct {
	Parent  string
	Child   string
	Missing string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("edge %s -> %s references undeclared node '%s'", e.Parent, e.Child, e.Missing)
}

func (e *UnknownNodeError) Unwrap() error { return ErrUnknownNodeReference }

// CycleError reports a directed cycle. Path starts and ends with the same node.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected: %s", strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCyclicGraph }

// DefinitionError reports a malformed node record.
type DefinitionError struct {
	Node   string
	Reason string
}

func (e *DefinitionError) Error() string {
	if e.Node == "" {
		return "invalid node definition: " + e.Reason
	}
	return fmt.Sprintf("invalid definition for node '%s': %s", e.Node, e.Reason)
}

func (e *DefinitionError) Unwrap() error { return ErrInvalidDefinition }
