// Package errors carries the coded errors shared by the datalabels CLI,
// HTTP server and client.
//
// Placement itself never fails: a label that cannot be placed becomes an
// invisible record. What can fail is everything around it. Scene files may
// be unreadable, options may name an unknown position, the cache may be
// unreachable or a request may time out. Each of those is reported as an
// [*Error] whose [Code] survives the trip over HTTP, so a remote caller can
// branch on the same codes as a local one.
//
// Codes are grouped by prefix: INVALID_* for rejected input, *NOT_FOUND for
// missing files or routes, CACHE_ERROR/TIMEOUT/UNAVAILABLE for
// infrastructure and INTERNAL_ERROR/UNSUPPORTED for everything else.
//
//	err := errors.Wrap(errors.ErrCodeInvalidScene, cause, "parse %s", path)
//	if errors.Is(err, errors.ErrCodeInvalidScene) {
//	    fmt.Println(errors.UserMessage(err))
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure. Codes appear verbatim in API
// responses.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidScene    Code = "INVALID_SCENE"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidPosition Code = "INVALID_POSITION"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeCache       Code = "CACHE_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeUnavailable Code = "UNAVAILABLE"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a Code with a message meant for people. Cause, when set, is
// reachable through errors.Unwrap.
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

// New returns an *Error with a formatted message and no cause.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an *Error that records cause beneath a formatted message.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// find returns the outermost *Error in err's chain.
func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in err's chain carries code.
func Is(err error, code Code) bool {
	e, ok := find(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage strips the code prefix and cause from coded errors. Other
// errors are returned as their Error string.
func UserMessage(err error) string {
	if e, ok := find(err); ok {
		return e.Message
	}
	return err.Error()
}
