package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by result stores when an id has no payload.
var ErrNotFound = errors.New("not found")

// ErrInvalidRequest marks screening input that cannot be processed.
var ErrInvalidRequest = errors.New("invalid request")

// FetchError reports an article that could not be downloaded or parsed.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s failed", e.URL)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// SchemaValidationError means the Oracle answered but the answer did not fit the expected shape.
type SchemaValidationError struct {
	Schema string
	Reason string
	Err    error
}

func (e *SchemaValidationError) Error() string {
	msg := fmt.Sprintf("schema validation failed for %s", e.Schema)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SchemaValidationError) Unwrap() error {
	return e.Err
}

// ProviderError reports a failed call to an upstream LLM provider.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Retryable  bool
	Err        error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("provider %s", e.Provider)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" returned %d", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err carries a retryable ProviderError.
func IsRetryable(err error) bool {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Retryable
	}
	return false
}
