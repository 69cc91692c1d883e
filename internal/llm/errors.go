package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrUnparseable is returned when neither the strict nor the salvage parse
// recovers anything usable from the model's answer.
var ErrUnparseable = errors.New("could not understand the model response")

// DefaultRetryAfter is assumed when a provider throttles without saying for how long.
const DefaultRetryAfter = 30 * time.Second

// MaxRetryAfter caps the wait read from a Retry-After header.
const MaxRetryAfter = 24 * time.Hour

// RateLimitError reports that the model provider answered HTTP 429.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
	Err        error
}

// NewRateLimitError wraps err. A non-positive retryAfter becomes DefaultRetryAfter.
func NewRateLimitError(provider string, retryAfter time.Duration, err error) *RateLimitError {
	if retryAfter <= 0 {
		retryAfter = DefaultRetryAfter
	}
	return &RateLimitError{Provider: provider, RetryAfter: retryAfter, Err: err}
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: rate limited, retry in %s: %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// RetryAfterFromHeader reads a Retry-After value, which is either a number of
// seconds or an HTTP date. It returns 0 when the value is missing, malformed
// or already in the past.
func RetryAfterFromHeader(val string, now time.Time) time.Duration {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0
	}
	if secs, err := strconv.Atoi(val); err == nil {
		if secs < 0 {
			return 0
		}
		if secs > int(MaxRetryAfter/time.Second) {
			return MaxRetryAfter
		}
		return time.Duration(secs) * time.Second
	}
	at, err := http.ParseTime(val)
	if err != nil || !at.After(now) {
		return 0
	}
	return min(at.Sub(now).Round(time.Second), MaxRetryAfter)
}
