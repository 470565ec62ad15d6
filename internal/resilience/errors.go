package resilience

import (
	"errors"
	"net"
	"strings"
	"syscall"
	"time"
)

// RateLimitError wraps a rate-limit response from an upstream API. When the
// server supplied a retry-after hint, RetryAfter holds it; otherwise it is
// nil and the caller's backoff schedule applies.
type RateLimitError struct {
	Err        error
	StatusCode int
	RetryAfter *time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Err.Error()
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError wraps an error as a rate-limit signal. retryAfter may
// be nil when the server sent no hint.
func NewRateLimitError(err error, statusCode int, retryAfter *time.Duration) *RateLimitError {
	return &RateLimitError{Err: err, StatusCode: statusCode, RetryAfter: retryAfter}
}

// IsRateLimit reports whether the error chain contains a rate-limit signal.
func IsRateLimit(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}

// RetryAfterHint returns the server-supplied delay hint from a rate-limit
// error, if any.
func RetryAfterHint(err error) (time.Duration, bool) {
	var rle *RateLimitError
	if errors.As(err, &rle) && rle.RetryAfter != nil {
		return *rle.RetryAfter, true
	}
	return 0, false
}

// TransientError wraps an error that is safe to retry (e.g., 5xx, network
// timeout) for callers whose operations are idempotent.
type TransientError struct {
	Err        error
	StatusCode int
}

func (e *TransientError) Error() string {
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// NewTransientError wraps an error as transient with an optional HTTP status code.
func NewTransientError(err error, statusCode int) *TransientError {
	return &TransientError{Err: err, StatusCode: statusCode}
}

// IsTransient returns true if the error (or any error in its chain) is a
// TransientError or RateLimitError, or if it matches common transient
// network failure patterns.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var te *TransientError
	if errors.As(err, &te) {
		return true
	}
	if IsRateLimit(err) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	// String-based heuristics for wrapped errors from HTTP clients.
	msg := strings.ToLower(err.Error())
	transientPatterns := []string{
		"connection reset by peer",
		"broken pipe",
		"temporary failure in name resolution",
		"no such host",
		"tls handshake timeout",
		"i/o timeout",
		"server closed idle connection",
		"transport connection broken",
	}
	for _, p := range transientPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}

	return false
}
