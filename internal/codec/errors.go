package codec

import "fmt"

// CorruptDataError reports a malformed persisted token. Decoding never
// produces a partial span set: any framing, digest, or structural
// fault fails the whole load.
type CorruptDataError struct {
	// Offset is the byte offset in the decoded frame where the fault
	// was detected, or -1 when it applies to the frame as a whole.
	Offset int

	// Reason describes the fault.
	Reason string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *CorruptDataError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("corrupt span data at byte %d: %s", e.Offset, e.Reason)
	}
	return fmt.Sprintf("corrupt span data: %s", e.Reason)
}

// Unwrap returns the underlying cause.
func (e *CorruptDataError) Unwrap() error {
	return e.Err
}

// corrupt builds a CorruptDataError.
func corrupt(offset int, reason string, err error) *CorruptDataError {
	return &CorruptDataError{Offset: offset, Reason: reason, Err: err}
}
