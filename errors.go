package mapread

import (
	"errors"
	"fmt"
)

// Error represents a mapread error with an error code
type Error struct {
	Code    ErrorCode
	Message string
	Err     error // wrapped error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mapread: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("mapread: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode classifies mapread errors
type ErrorCode int

const (
	// Success indicates the operation completed successfully
	Success ErrorCode = 0

	// ErrUnknown indicates an error that did not originate in mapread
	ErrUnknown ErrorCode = -1

	// ErrNotFound indicates the file does not exist (setup error)
	ErrNotFound ErrorCode = 1

	// ErrOpenFailed indicates the file could not be opened or stat'd
	// for a reason other than absence (setup error)
	ErrOpenFailed ErrorCode = 2

	// ErrMapFailed indicates the OS rejected the mapping request (setup error)
	ErrMapFailed ErrorCode = 3

	// ErrOutOfBounds indicates a read past the mapped length.
	// The mapping is never touched for such a read.
	ErrOutOfBounds ErrorCode = 4

	// ErrFault indicates the mapped memory could not be resolved at the
	// moment of access. The failure is scoped to that one read: the file
	// stays usable and a later read may succeed or fail independently.
	ErrFault ErrorCode = 5
)

// Error descriptions
var errorMessages = map[ErrorCode]string{
	Success:        "success",
	ErrUnknown:     "unknown error",
	ErrNotFound:    "file not found",
	ErrOpenFailed:  "open failed",
	ErrMapFailed:   "mapping failed",
	ErrOutOfBounds: "offset out of bounds",
	ErrFault:       "mapped memory unreadable",
}

// NewError creates a new Error with the given code
func NewError(code ErrorCode) *Error {
	msg, ok := errorMessages[code]
	if !ok {
		msg = fmt.Sprintf("unknown error code %d", code)
	}
	return &Error{Code: code, Message: msg}
}

// WrapError creates a new Error wrapping another error
func WrapError(code ErrorCode, err error) *Error {
	e := NewError(code)
	e.Err = err
	return e
}

// Read-path sentinels, shared so the hot path does not allocate
var (
	errOutOfBounds = NewError(ErrOutOfBounds)
	errFault       = NewError(ErrFault)
)

// Code returns the error code from an error, or Success if err is nil
func Code(err error) ErrorCode {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrUnknown
}

// IsNotFound returns true if the error is ErrNotFound
func IsNotFound(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrNotFound
	}
	return false
}

// IsOutOfBounds returns true if the error is ErrOutOfBounds
func IsOutOfBounds(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrOutOfBounds
	}
	return false
}

// IsFault returns true if the error is a recoverable read fault
func IsFault(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrFault
	}
	return false
}
