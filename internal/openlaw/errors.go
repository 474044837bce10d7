package openlaw

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCategory defines the normalized failure taxonomy for remote calls.
//
// Services translate categories into domain error codes; they never inspect raw
// messages or status codes themselves.
type ErrorCategory string

const (
	// ErrorTimeout indicates the bounded wait for the remote service elapsed
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorNetwork indicates the request never produced an HTTP response
	ErrorNetwork ErrorCategory = "network"

	// ErrorCanceled indicates the caller abandoned the request
	ErrorCanceled ErrorCategory = "canceled"

	// ErrorAuthentication indicates rejected credentials or a missing/expired token
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorNotFound indicates the requested template or contract doesn't exist
	ErrorNotFound ErrorCategory = "not_found"

	// ErrorRejected indicates any other 4xx answer
	ErrorRejected ErrorCategory = "rejected"

	// ErrorRateLimited indicates too many requests
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorOutage indicates a 5xx answer
	ErrorOutage ErrorCategory = "outage"

	// ErrorBadData indicates a success status with a body we could not interpret
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorInternal indicates a local failure building the request
	ErrorInternal ErrorCategory = "internal"
)

// RemoteError wraps a failed call to the contract-hosting service with a
// normalized category and the HTTP status, when one was received.
type RemoteError struct {
	Category   ErrorCategory
	Operation  string
	Status     int
	Message    string
	Underlying error
	Retryable  bool // set from Category: timeout, network, outage and rate-limited are retryable
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("openlaw %s [%s]: %s", e.Operation, e.Category, e.Message)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Underlying != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Underlying)
	}
	return msg
}

// Unwrap supports error unwrapping
func (e *RemoteError) Unwrap() error {
	return e.Underlying
}

// NewRemoteError creates a normalized remote error with automatic retry classification.
func NewRemoteError(category ErrorCategory, operation string, status int, message string, underlying error) *RemoteError {
	retryable := category == ErrorTimeout ||
		category == ErrorNetwork ||
		category == ErrorOutage ||
		category == ErrorRateLimited

	return &RemoteError{
		Category:   category,
		Operation:  operation,
		Status:     status,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

// IsRetryable checks if an error is worth retrying
func IsRetryable(err error) bool {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Retryable
	}
	return false
}

// CategoryOf extracts the error category from an error
func CategoryOf(err error) ErrorCategory {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Category
	}
	return ErrorInternal
}

// StatusOf extracts the HTTP status from an error, or zero when no response was received.
func StatusOf(err error) int {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}

// classifyStatus maps a non-success HTTP status to a remote error.
func classifyStatus(operation string, status int) *RemoteError {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return NewRemoteError(ErrorAuthentication, operation, status, "authentication failed", nil)
	case status == http.StatusNotFound:
		return NewRemoteError(ErrorNotFound, operation, status, "not found", nil)
	case status == http.StatusTooManyRequests:
		return NewRemoteError(ErrorRateLimited, operation, status, "rate limit exceeded", nil)
	case status >= 500:
		return NewRemoteError(ErrorOutage, operation, status, "service unavailable", nil)
	default:
		return NewRemoteError(ErrorRejected, operation, status, fmt.Sprintf("unexpected status code: %d", status), nil)
	}
}
