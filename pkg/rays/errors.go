package rays

import "errors"

// Sentinel errors returned by bundle and sample operations. Callers match
// them with errors.Is; the returned errors carry extra context via wrapping.
var (
	// ErrShapeMismatch signals arrays whose lengths disagree with the shape
	// an operation expects.
	ErrShapeMismatch = errors.New("rays: shape mismatch")

	// ErrMissingField signals an operation that needs an optional field
	// which is absent on the receiver.
	ErrMissingField = errors.New("rays: missing field")
)
