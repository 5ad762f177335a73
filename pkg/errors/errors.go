// Package errors defines the coded errors procdeck reports.
//
// Every failure that crosses a package boundary carries a [Code]. The CLI
// prints the message and the HTTP server maps the code to a status.
//
// The diagram engine owns three codes:
//
//	MALFORMED_TABLE  the row slice of a policy is empty or lacks a required row
//	TAGGER_FAILURE   the part-of-speech tagger rejected a cell
//	RENDER_FAILURE   a page could not be turned into bytes
//
// The rest describe bad input and missing files at the edges.
//
//	err := errors.New(errors.ErrCodeMalformedTable, "policy %s: row %d missing", id, 1)
//	if errors.Is(err, errors.ErrCodeMalformedTable) {
//	    // skip the page
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure.
type Code string

const (
	ErrCodeMalformedTable Code = "MALFORMED_TABLE"
	ErrCodeTaggerFailure  Code = "TAGGER_FAILURE"
	ErrCodeRenderFailure  Code = "RENDER_FAILURE"
)

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidCanvas Code = "INVALID_CANVAS"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeInternal      Code = "INTERNAL_ERROR"
)

// Error pairs a Code with a message. Cause, when set, is reachable through
// errors.Unwrap.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	s := string(e.Code) + ": " + e.Message
	if e.Cause == nil {
		return s
	}
	return s + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// outermost returns the first *Error in the chain of err.
func outermost(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in the chain of err has the
// given code. A TAGGER_FAILURE wrapped as RENDER_FAILURE is a RENDER_FAILURE.
func Is(err error, code Code) bool {
	e, ok := outermost(err)
	return ok && e.Code == code
}

// GetCode returns the code of err, or "" for uncoded errors.
func GetCode(err error) Code {
	if e, ok := outermost(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage strips the code prefix and the cause from a coded error.
// Other errors are returned as they print.
func UserMessage(err error) string {
	if e, ok := outermost(err); ok {
		return e.Message
	}
	return err.Error()
}
