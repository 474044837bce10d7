package domainerrors

import (
	"errors"
	"fmt"
)

// Code represents a domain error category independent of transport layer.
// These codes describe what went wrong in petition-flow terms, not HTTP terms.
type Code string

const (
	CodeNotFound     Code = "not_found"
	CodeBadRequest   Code = "bad_request"
	CodeInvalidInput Code = "invalid_input"
	CodeInternal     Code = "internal_error"
	CodeConflict     Code = "conflict"
	CodeUnauthorized Code = "unauthorized"
	CodeTimeout      Code = "timeout"
	CodeTooLarge     Code = "payload_too_large"

	// Petition flow failure kinds.
	CodeAuthFailed        Code = "auth_failed"        // login rejected; user-fixable
	CodeTemplateFailed    Code = "template_failed"    // template lookup and creation both failed
	CodeSubmissionFailed  Code = "submission_failed"  // every upload strategy exhausted
	CodeWalletUnavailable Code = "wallet_unavailable" // no wallet capability present
	CodeNoAccount         Code = "no_account"         // wallet granted no address
	CodeSigningRejected   Code = "signing_rejected"   // wallet refused the signing request
	CodeNetwork           Code = "network_error"      // generic transport failure; retryable
	CodeInvalidDate       Code = "invalid_date"       // strict date mode only
)

// Error wraps domain or infrastructure failures with a stable code.
// It is transport-agnostic and can be used across service, client, and handler layers.
// Status carries the last remote HTTP status when one is known (zero otherwise).
type Error struct {
	Code    Code
	Message string
	Status  int
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Newf creates a new domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code is preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: msg, Status: existing.Status, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// WithStatus creates a domain error that records the last remote HTTP status.
func WithStatus(code Code, status int, msg string, err error) error {
	return &Error{Code: code, Message: msg, Status: status, Err: err}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// StatusOf returns the remote HTTP status recorded on a domain error, or zero.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// IsRetryable reports whether the failure kind can be retried by re-invoking the operation.
func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Code {
	case CodeNetwork, CodeTimeout, CodeWalletUnavailable, CodeNoAccount, CodeSigningRejected:
		return true
	default:
		return false
	}
}
