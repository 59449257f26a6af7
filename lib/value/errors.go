package value

import (
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Error Codes
// --------------------------------------------------------------------------

type ErrCode uint64

const (
	ErrCInternal    ErrCode = iota // 0: Unexpected internal failure.
	ErrCArgument                   // 1: Validation error (type mismatch, unknown field, ...).
	ErrCIO                         // 2: Reading or writing a persisted encoding failed.
	ErrCDecode                     // 3: A persisted encoding is malformed.
	ErrCEndOfStream                // 4: A row stream has no more data.
)

func (c ErrCode) String() string {
	switch c {
	case ErrCInternal:
		return "Internal"
	case ErrCArgument:
		return "Argument"
	case ErrCIO:
		return "IO"
	case ErrCDecode:
		return "Decode"
	case ErrCEndOfStream:
		return "EndOfStream"
	default:
		return "Unknown"
	}
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is the uniform error type of the runtime. It wraps an error code,
// a message and optionally the underlying cause.
type Error struct {
	Code  ErrCode // The error code
	Msg   string  // The error message
	Cause error   // The underlying error (may be nil)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Code, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s error: %s", e.Code, e.Msg)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// ArgumentError creates a validation error.
func ArgumentError(format string, args ...interface{}) *Error {
	return NewError(ErrCArgument, fmt.Sprintf(format, args...))
}

// DecodeError creates an error for a malformed encoding.
func DecodeError(format string, args ...interface{}) *Error {
	return NewError(ErrCDecode, fmt.Sprintf(format, args...))
}

// IOError wraps an I/O failure.
func IOError(msg string, cause error) *Error {
	return &Error{Code: ErrCIO, Msg: msg, Cause: cause}
}

// EndOfStream signals that a row stream is exhausted.
func EndOfStream() *Error {
	return NewError(ErrCEndOfStream, "end of stream")
}

// IsCode reports whether err is (or wraps) an *Error with the given code.
func IsCode(err error, code ErrCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsEndOfStream reports whether err signals stream exhaustion rather than a real failure.
func IsEndOfStream(err error) bool {
	return IsCode(err, ErrCEndOfStream)
}
