package app

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind discriminates the failure classes surfaced to callers.
type ErrorKind string

const (
	KindConfig       ErrorKind = "CONFIG"
	KindUnauthorized ErrorKind = "UNAUTHORIZED"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindUpstream     ErrorKind = "UPSTREAM"
	KindValidation   ErrorKind = "VALIDATION"
)

// Error is the single error type returned across the use-case boundary.
// Status carries the upstream HTTP status for KindUpstream, otherwise the
// status implied by Kind.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status code the web layer answers with.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConfig:
		return http.StatusInternalServerError
	case KindUpstream:
		if e.Status >= 400 {
			return e.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind ErrorKind, status int, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Status: status, Message: fmt.Sprintf(format, args...), Err: err}
}

// Validationf reports malformed caller input.
func Validationf(format string, args ...any) *Error {
	return newError(KindValidation, http.StatusBadRequest, nil, format, args...)
}

// Configf reports a missing credential or setting.
func Configf(err error, format string, args ...any) *Error {
	return newError(KindConfig, http.StatusInternalServerError, err, format, args...)
}

// Unauthorizedf reports a missing or rejected credential.
func Unauthorizedf(err error, format string, args ...any) *Error {
	return newError(KindUnauthorized, http.StatusUnauthorized, err, format, args...)
}

// NotFoundf reports a missing repository, installation or record.
func NotFoundf(err error, format string, args ...any) *Error {
	return newError(KindNotFound, http.StatusNotFound, err, format, args...)
}

// Upstreamf reports a failure answered by the hosting or model API.
func Upstreamf(status int, err error, format string, args ...any) *Error {
	return newError(KindUpstream, status, err, format, args...)
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
