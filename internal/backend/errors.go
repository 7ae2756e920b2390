package backend

import "fmt"

// TransportError represents a network or backend-availability failure.
// The pipeline surfaces it as a failed result; it is never retried automatically.
type TransportError struct {
	Op    string
	Cause error
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transport error during %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("transport error during %s", e.Op)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// PartialResponseError represents a backend response that completed at the
// transport level but reported failure. Message is the server's human-readable
// explanation, passed through verbatim.
type PartialResponseError struct {
	Op      string
	Message string
}

func (e *PartialResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s failed without a reason from the backend", e.Op)
	}
	return e.Message
}
