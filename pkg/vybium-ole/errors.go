package vybiumole

import "github.com/vybium/vybium-ole/internal/vybium-ole/protocol"

// ErrorCode classifies why an OLE session or call failed
type ErrorCode = protocol.ErrorCode

const (
	// ErrUnknown represents an unknown error
	ErrUnknown = protocol.ErrUnknown

	// ErrIoError represents a channel read, write or flush failure
	ErrIoError = protocol.ErrIoError

	// ErrOtError represents an oblivious transfer failure
	ErrOtError = protocol.ErrOtError

	// ErrLengthMismatch represents input vectors of unequal or
	// oversized length
	ErrLengthMismatch = protocol.ErrLengthMismatch

	// ErrCommitmentMismatch represents a failed commitment check on
	// the Receiver side
	ErrCommitmentMismatch = protocol.ErrCommitmentMismatch

	// ErrSecretMismatch represents a failed secret check on the
	// Sender side
	ErrSecretMismatch = protocol.ErrSecretMismatch

	// ErrIdentityCheckFailed represents a failed challenge-point
	// polynomial identity check
	ErrIdentityCheckFailed = protocol.ErrIdentityCheckFailed

	// ErrPreconditionError represents an internal invariant violation
	ErrPreconditionError = protocol.ErrPreconditionError
)

// Error is the structured error type surfaced by every OLE operation.
// It supports errors.Is against another *Error with the same Code and
// errors.As extraction.
type Error = protocol.Error

// NewError constructs an Error for callers that need to synthesize one
// (tests, wrappers around the protocol layer).
func NewError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}
