package cpt

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedTable is wrapped by ShapeError.
	ErrMalformedTable = errors.New("malformed probability table")
	// ErrMissingTable is returned by Freeze when a node has no table.
	ErrMissingTable = errors.New("node has no probability table")
	// ErrUnknownNode is returned for ids the graph does not declare.
	ErrUnknownNode = errors.New("unknown node")
)

// ShapeError describes why a table was rejected.
type ShapeError struct {
	Node   string
	Row    int // -1 when the problem is not tied to a row
	Reason string
}

func (e *ShapeError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("table for '%s': %s", e.Node, e.Reason)
	}
	return fmt.Sprintf("table for '%s', row %d: %s", e.Node, e.Row, e.Reason)
}

func (e *ShapeError) Unwrap() error { return ErrMalformedTable }
