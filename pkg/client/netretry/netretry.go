// Package netretry provides shared retry utilities for transient network errors
// reported by the package manager (registry pulls, repository index downloads).
package netretry

import (
	"regexp"
	"strings"
	"time"
)

// httpStatusCodePattern matches HTTP 5xx status codes at word boundaries
// to avoid false positives on port numbers like ":5000".
var httpStatusCodePattern = regexp.MustCompile(`\b50[0-4]\b`)

// transientPatterns are HTTP 5xx status texts, registry rate limits and
// TCP-level transient network errors.
//
//nolint:gochecknoglobals // read-only lookup table
var transientPatterns = []string{
	"Internal Server Error", "Bad Gateway",
	"Service Unavailable", "Gateway Timeout",
	"Too Many Requests", "toomanyrequests",
	"connection reset by peer", "connection refused",
	"i/o timeout", "TLS handshake timeout",
	"unexpected EOF", "no such host",
}

// IsRetryable returns true if the error indicates a transient network error
// that should be retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	return IsRetryableOutput(err.Error())
}

// IsRetryableOutput applies the same classification to captured process output,
// typically the stderr of a failed helm invocation.
func IsRetryableOutput(output string) bool {
	if output == "" {
		return false
	}

	for _, pattern := range transientPatterns {
		if strings.Contains(output, pattern) {
			return true
		}
	}

	return httpStatusCodePattern.MatchString(output)
}

// ExponentialDelay returns the delay for the given retry attempt
// using exponential backoff.
// Uses the formula: min(baseWait * 2^(attempt-1), maxWait).
// A non-positive maxWait disables the cap.
func ExponentialDelay(
	attempt int,
	baseWait, maxWait time.Duration,
) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := baseWait * time.Duration(1<<(attempt-1))
	if maxWait <= 0 {
		return delay
	}

	return min(delay, maxWait)
}
