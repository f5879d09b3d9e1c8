package extract

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/steelbid/internal/drawing"
)

// Request is one batch of a drawing to take off.
type Request struct {
	Title string
	Batch drawing.Batch
}

// Extractor turns drawing content into raw member rows. Implementations
// return *RetryableError for transient failures.
type Extractor interface {
	ExtractMembers(ctx context.Context, req Request) ([]RawMember, error)
	Model() string
	Close()
}

// RetryableError indicates a transient failure that can be retried.
// RetryAfter is the server's requested wait, zero when it gave none.
type RetryableError struct {
	StatusCode int
	Message    string
	RetryAfter time.Duration
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func retryableStatus(code int) bool {
	return code == 429 || code >= 500
}

// parseRetryAfter reads a Retry-After header in its delay-seconds form.
func parseRetryAfter(h string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

var codeFenceRe = regexp.MustCompile("```(?:json|JSON)?")

// stripCodeBlock removes markdown code fences wherever they appear.
func stripCodeBlock(s string) string {
	return strings.TrimSpace(codeFenceRe.ReplaceAllString(s, ""))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
