package pipeline

import (
	"errors"
	"fmt"
)

// ErrInFlight is returned when an operation is requested for an artifact kind
// that already has a request in flight. Double submits are prevented at the UI
// layer; this sentinel keeps state intact when that gating fails.
var ErrInFlight = errors.New("a request for this artifact is already in flight")

// ValidationError reports malformed or incomplete input caught before any
// network call. It is fatal to the single operation and never retried
// automatically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// IsValidationError reports whether err is a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
