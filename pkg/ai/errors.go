package ai

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
)

// IsRetryable reports whether a provider error is worth another attempt:
// rate limits, server errors, timeouts and transient network failures.
// Cancellation by the caller is never retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, marker := range []string{
		"connection refused",
		"connection reset",
		"network unreachable",
		"no such host",
		"i/o timeout",
		"rate limit",
		"too many requests",
		"service unavailable",
		"bad gateway",
		"temporary failure",
		"try again",
	} {
		if strings.Contains(errStr, marker) {
			return true
		}
	}
	return false
}
