package fetcher

import (
	"fmt"
)

// UpstreamError represents a failed call to an external data source: either a
// non-success HTTP status or a payload that signaled no data. It is surfaced
// to API callers as a gateway failure and is never retried.
type UpstreamError struct {
	Upstream   string
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s returned %d", e.Upstream, e.StatusCode)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// NewUpstreamStatusError creates an UpstreamError for a non-success HTTP status
func NewUpstreamStatusError(upstream string, statusCode int) *UpstreamError {
	return &UpstreamError{
		Upstream:   upstream,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("%s returned %d", upstream, statusCode),
	}
}

// NewUpstreamDataError creates an UpstreamError for a response that carried no
// usable data despite a success status
func NewUpstreamDataError(upstream, message string) *UpstreamError {
	return &UpstreamError{
		Upstream: upstream,
		Message:  message,
	}
}

// ValidationError represents malformed client input rejected before it reaches
// the aggregation core
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
