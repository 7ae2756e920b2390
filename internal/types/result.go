package types

// Result is the outcome of a single generation stage.
// Invariant: Success implies Payload is set; !Success implies ErrorMessage is set.
type Result[T any] struct {
	Success      bool   `json:"success"`
	Payload      *T     `json:"payload,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Ok builds a successful result carrying payload.
func Ok[T any](payload T) Result[T] {
	return Result[T]{Success: true, Payload: &payload}
}

// Fail builds a failed result carrying the error message.
func Fail[T any](message string) Result[T] {
	return Result[T]{Success: false, ErrorMessage: message}
}

// FailErr builds a failed result from an error.
func FailErr[T any](err error) Result[T] {
	return Result[T]{Success: false, ErrorMessage: err.Error()}
}
