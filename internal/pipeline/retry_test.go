package pipeline

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dgallion1/steelbid/internal/extract"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"retryable", &extract.RetryableError{StatusCode: 429}, true},
		{"wrapped", fmt.Errorf("batch 2: %w", &extract.RetryableError{StatusCode: 503}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestBackoff_Bounds(t *testing.T) {
	for attempt := 0; attempt < 8; attempt++ {
		base := time.Duration(1<<uint(attempt)) * time.Second
		if base > 30*time.Second {
			base = 30 * time.Second
		}
		for range 20 {
			d := Backoff(attempt)
			if d < base || d >= base+base/2 {
				t.Fatalf("Backoff(%d) = %v, want [%v, %v)", attempt, d, base, base+base/2)
			}
		}
	}
}

func TestRetryDelay(t *testing.T) {
	fixed := func(int) time.Duration { return 7 * time.Second }
	tests := []struct {
		name string
		err  error
		want time.Duration
	}{
		{"no hint", &extract.RetryableError{StatusCode: 503}, 7 * time.Second},
		{"hint", &extract.RetryableError{StatusCode: 429, RetryAfter: 4 * time.Second}, 4 * time.Second},
		{"hint capped", &extract.RetryableError{StatusCode: 429, RetryAfter: 5 * time.Minute}, 30 * time.Second},
		{"wrapped hint", fmt.Errorf("x: %w", &extract.RetryableError{RetryAfter: time.Second}), time.Second},
		{"plain", errors.New("boom"), 7 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryDelay(tt.err, 0, fixed); got != tt.want {
				t.Errorf("retryDelay = %v, want %v", got, tt.want)
			}
		})
	}
}
