// Package errors provides coded errors for the Pathlens application surface.
//
// The query engine itself never returns errors: malformed queries fail
// closed and execute as empty or identity filters. Everything around the
// engine (dataset loading, saved-view storage, the HTTP API, the CLI) uses
// the coded errors defined here so handlers can branch on a stable
// machine-readable Code while users see the plain message.
//
// Construct with New or Wrap and test with Is:
//
//	err := errors.New(errors.ErrCodeInvalidDataset, "dataset has no nodes: %s", path)
//	if errors.Is(err, errors.ErrCodeInvalidDataset) { ... }
//
//	err = errors.Wrap(errors.ErrCodeStore, cause, "saving view %s", id)
package errors

import (
	stderrors "errors"
	"fmt"
)

// Code is a stable machine-readable error category. Codes appear in API
// error bodies and CLI exit diagnostics, so renaming one is a breaking
// change.
type Code string

const (
	// Input validation
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidQuery   Code = "INVALID_QUERY"
	ErrCodeInvalidDataset Code = "INVALID_DATASET"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidName    Code = "INVALID_NAME"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	// Missing resources
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeNodeNotFound Code = "NODE_NOT_FOUND"
	ErrCodeViewNotFound Code = "VIEW_NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Saved-view storage
	ErrCodeStore       Code = "STORE_ERROR"
	ErrCodeStoreClosed Code = "STORE_CLOSED"

	// Everything else
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a Code with a human-readable message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error renders as "CODE: message" with the cause appended when present.
func (e *Error) Error() string {
	s := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

// Unwrap exposes the cause to the errors.Is/As chain.
func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error from a code and a printf-style message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error that carries cause at the end of its chain.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// as finds the outermost *Error in err's chain.
func as(err error) (*Error, bool) {
	var e *Error
	ok := stderrors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain has the
// given code. Inner codes are shadowed by outer ones.
func Is(err error, code Code) bool {
	e, ok := as(err)
	return ok && e.Code == code
}

// GetCode returns err's code, or the empty string for plain errors and nil.
func GetCode(err error) Code {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix for coded
// errors, and the full error string for anything else.
func UserMessage(err error) string {
	if e, ok := as(err); ok {
		return e.Message
	}
	return err.Error()
}
