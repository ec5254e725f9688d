package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the provider error taxonomy. Each provider failure
// mode wraps exactly one of these so callers can pattern-match with
// errors.Is instead of inspecting messages.
var (
	// ErrNoCredential means the provider credential is not configured.
	// Returned before any network call is made.
	ErrNoCredential = fmt.Errorf("search provider credential not configured")

	// ErrAuthInvalid maps HTTP 401 from the provider.
	ErrAuthInvalid = fmt.Errorf("authentication failed")

	// ErrRateLimit maps HTTP 429 from the provider.
	ErrRateLimit = fmt.Errorf("rate limit exceeded")

	// ErrInvalidParams maps HTTP 400 from the provider.
	ErrInvalidParams = fmt.Errorf("invalid search parameters")

	// ErrNetwork covers connection and timeout failures before a status
	// code was received.
	ErrNetwork = fmt.Errorf("network error")

	// ErrUnexpectedStatus covers any other non-200 provider response.
	// Wrap via StatusError so the code stays recoverable.
	ErrUnexpectedStatus = fmt.Errorf("unexpected provider status")
)

// StatusError carries the raw HTTP status of an unexpected provider
// response. It unwraps to ErrUnexpectedStatus.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected provider status %d", e.Code)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// StatusCode extracts the HTTP status from an error chain containing a
// StatusError. Returns 0 when there is none.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// WrapOp adds operation context to an error. Returns nil if err is nil.
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsRetryableError reports whether err is a transient provider error that
// may succeed on a later attempt with different parameters.
func IsRetryableError(err error) bool {
	return errors.Is(err, ErrRateLimit) || errors.Is(err, ErrNetwork) || errors.Is(err, ErrUnexpectedStatus)
}
