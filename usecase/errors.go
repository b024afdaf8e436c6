package usecase

import (
	"fmt"
)

// ErrorCode represents an application error code.
type ErrorCode int

const (
	// MissingInput means the schema file does not exist.
	MissingInput ErrorCode = iota + 1
	// UnreadableFile means the schema or keep list file exists but cannot be read.
	UnreadableFile
	// WriteFailure means the output could not be written completely.
	WriteFailure
	// VerifyFailure means the output does not compile or does not match the
	// marked schema.
	VerifyFailure
)

// String implements fmt.Stringer.
func (e ErrorCode) String() string {
	switch e {
	case MissingInput:
		return "MissingInput"
	case UnreadableFile:
		return "UnreadableFile"
	case WriteFailure:
		return "WriteFailure"
	case VerifyFailure:
		return "VerifyFailure"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(e))
	}
}

// Error is an application error with an ErrorCode.
type Error struct {
	code ErrorCode
	msg  string
	err  error
}

func newError(code ErrorCode, err error, format string, a ...interface{}) *Error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), err: err}
}

func (e *Error) Error() string {
	if e.err == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.msg, e.err)
}

func (e *Error) Code() ErrorCode {
	return e.code
}

// Message returns the message without the underlying error.
func (e *Error) Message() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.err
}
