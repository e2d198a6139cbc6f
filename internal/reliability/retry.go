package reliability

import (
	"context"
	"errors"
	"net"
	"time"
)

type httpStatusCoder interface {
	HTTPStatusCode() int
}

// IsRetryableHTTPStatus classifies upstream HTTP status codes worth one
// more attempt.
func IsRetryableHTTPStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// IsRetryable reports whether an upstream call failure is transient. Context
// cancellation and deadline expiry are never retried; the caller has already
// given up waiting.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr httpStatusCoder
	if errors.As(err, &statusErr) {
		return IsRetryableHTTPStatus(statusErr.HTTPStatusCode())
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Backoff computes a deterministic capped backoff duration for a retry
// attempt (attempt 0 returns base).
func Backoff(attempt int, base, cap time.Duration) time.Duration {
	if attempt <= 0 {
		return base
	}
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= cap {
			return cap
		}
	}
	return d
}
