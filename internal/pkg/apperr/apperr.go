// Package apperr holds the error kinds that carry a user-facing message and
// an HTTP-style code across service boundaries.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Coded is implemented by every error kind in this package.
type Coded interface {
	error
	Code() int
	Message() string
}

// ValidationError reports invalid input or a violated precondition.
type ValidationError struct {
	Msg string
	Err error
}

func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}
func (e *ValidationError) Unwrap() error   { return e.Err }
func (e *ValidationError) Code() int       { return http.StatusBadRequest }
func (e *ValidationError) Message() string { return e.Msg }

// NotFoundError reports a missing order, charge or subscription.
type NotFoundError struct {
	Msg string
}

func NewNotFound(format string, args ...any) *NotFoundError {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

func (e *NotFoundError) Error() string   { return e.Msg }
func (e *NotFoundError) Code() int       { return http.StatusNotFound }
func (e *NotFoundError) Message() string { return e.Msg }

// RemoteRejectedError reports that Plug declined an order. Failures maps the
// ids of charges that could not be compensated to the reason.
type RemoteRejectedError struct {
	Msg      string
	Failures map[string]string
}

func NewRemoteRejected(msg string, failures map[string]string) *RemoteRejectedError {
	return &RemoteRejectedError{Msg: msg, Failures: failures}
}

func (e *RemoteRejectedError) Error() string   { return e.Msg }
func (e *RemoteRejectedError) Code() int       { return http.StatusBadRequest }
func (e *RemoteRejectedError) Message() string { return e.Msg }

// TranslatedError wraps any failure with the message that is safe to show
// to the buyer.
type TranslatedError struct {
	Msg    string
	Status int
	Err    error
}

func NewTranslated(msg string, err error) *TranslatedError {
	return &TranslatedError{Msg: msg, Status: http.StatusBadRequest, Err: err}
}

func (e *TranslatedError) Error() string   { return e.Msg }
func (e *TranslatedError) Unwrap() error   { return e.Err }
func (e *TranslatedError) Code() int       { return e.Status }
func (e *TranslatedError) Message() string { return e.Msg }

// HTTPStatus maps err to a response code. Unknown errors are 500.
func HTTPStatus(err error) int {
	var coded Coded
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return http.StatusInternalServerError
}

// UserMessage returns the user-facing message of err, or fallback.
func UserMessage(err error, fallback string) string {
	var coded Coded
	if errors.As(err, &coded) && coded.Message() != "" {
		return coded.Message()
	}
	return fallback
}
