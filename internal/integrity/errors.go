package integrity

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes integrity errors. All of them are local to the call
// that produced them and recoverable by the caller; nothing here is ever
// fatal to the process.
type ErrorCode string

const (
	// ErrCodeInvalidDepth indicates a chain depth outside the valid range.
	// Depth zero is always invalid; depths outside the configured policy
	// are rejected at signing time.
	ErrCodeInvalidDepth ErrorCode = "INVALID_DEPTH"

	// ErrCodeMalformedRecord indicates a metadata.integrity value that does
	// not decode into an integrity record.
	ErrCodeMalformedRecord ErrorCode = "MALFORMED_RECORD"
)

// Error is a structured integrity error with a stable code for callers
// that need to branch on the failure category.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidDepthError creates an Error for an out-of-range chain depth.
func NewInvalidDepthError(depth uint32, reason string) *Error {
	return &Error{
		Code:    ErrCodeInvalidDepth,
		Message: fmt.Sprintf("chain depth %d is invalid: %s", depth, reason),
	}
}

// IsInvalidDepth reports whether err is an INVALID_DEPTH error.
// Uses errors.As to handle wrapped errors.
func IsInvalidDepth(err error) bool {
	var ie *Error
	return errors.As(err, &ie) && ie.Code == ErrCodeInvalidDepth
}
