// Package domainerrors carries the error taxonomy shared by services, stores and
// transport. Every client-facing failure is an *Error with a stable Code; the HTTP
// layer maps codes to status codes and never inspects messages.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a failure independently of the transport that reports it.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_error"
	CodeInvalidInput       Code = "invalid_input"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInvariantViolation Code = "invariant_violation"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal_error"

	// Enrollment lifecycle codes.
	CodeIdentity         Code = "identity_error"
	CodeAuthorization    Code = "authorization_error"
	CodeEnrollmentClosed Code = "enrollment_closed"
	CodeAlreadyEnrolled  Code = "already_enrolled"
	CodeNotEnrolled      Code = "not_enrolled"
	CodeBulkValidation   Code = "bulk_validation_error"
	CodeStore            Code = "store_error"
	CodePartialFailure   Code = "partial_failure"
)

// Error is a coded domain error. Err holds the optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns a coded error without a cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to err. A nil err still yields an error so
// callers can use Wrap unconditionally on failure paths.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether any *Error in err's chain carries code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// CodeOf returns the outermost code in err's chain, or CodeInternal when err is
// not a domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the outermost domain message, or "" for foreign errors.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
