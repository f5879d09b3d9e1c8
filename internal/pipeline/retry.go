package pipeline

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/dgallion1/steelbid/internal/extract"
)

// MaxRetries is the number of extraction attempts per batch.
const MaxRetries = 3

const maxBackoff = 30 * time.Second

// IsRetryable reports whether an extraction error is transient.
func IsRetryable(err error) bool {
	var retryErr *extract.RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > maxBackoff {
		base = maxBackoff
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

// retryDelay prefers the provider's Retry-After hint, capped at maxBackoff,
// and falls back to backoff.
func retryDelay(err error, attempt int, backoff func(int) time.Duration) time.Duration {
	var retryErr *extract.RetryableError
	if errors.As(err, &retryErr) && retryErr.RetryAfter > 0 {
		return min(retryErr.RetryAfter, maxBackoff)
	}
	return backoff(attempt)
}
