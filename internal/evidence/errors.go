package evidence

import (
	"errors"
	"fmt"
)

// ErrInvalidEvidence is wrapped by InvalidEvidenceError.
var ErrInvalidEvidence = errors.New("invalid evidence")

// InvalidEvidenceError reports an observation the schema does not allow.
type InvalidEvidenceError struct {
	Node   string
	Value  string
	Reason string
}

func (e *InvalidEvidenceError) Error() string {
	return fmt.Sprintf("invalid evidence %s=%s: %s", e.Node, e.Value, e.Reason)
}

func (e *InvalidEvidenceError) Unwrap() error { return ErrInvalidEvidence }
