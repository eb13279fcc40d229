package model

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	// ErrRateLimited is returned when the LLM API answers 429.
	ErrRateLimited = errors.New("rate limit exceeded, try again in a few minutes")
	// ErrNoResume is returned when a draft is requested before any résumé or
	// instructions were saved.
	ErrNoResume = errors.New("no resume saved; run `draftin profile set` first")
	// ErrMissingField is wrapped by request validation failures.
	ErrMissingField = errors.New("missing required field")
)

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// ParseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func ParseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
