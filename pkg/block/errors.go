package block

import (
	"errors"
	"fmt"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrStructuralImpossibility indicates the engine reached a state its
	// invariants rule out: no block type matched a line, or a block that
	// began as an interruption rejected a line.
	ErrStructuralImpossibility = errors.New("structural impossibility")

	// ErrMissingTraits indicates a block type was requested but never registered.
	ErrMissingTraits = errors.New("missing block traits")

	// ErrContentOrdering indicates a content line was added out of order or twice.
	ErrContentOrdering = errors.New("content line out of order")

	// ErrDuplicateType indicates a block type was registered twice.
	ErrDuplicateType = errors.New("block type already registered")
)

// StructuralError reports a structural impossibility at a given line.
type StructuralError struct {
	Type   Type
	Line   int
	Reason string
}

func (e *StructuralError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("line %d: %s", e.Line+1, e.Reason)
	}
	return fmt.Sprintf("line %d: %s: %s", e.Line+1, e.Type, e.Reason)
}

// Unwrap returns ErrStructuralImpossibility.
func (e *StructuralError) Unwrap() error {
	return ErrStructuralImpossibility
}
