package gh

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"
)

const (
	// DefaultMaxRetries bounds retries of rate-limit and server errors.
	DefaultMaxRetries = 3
	// maxNetRetries bounds retries of transient network errors.
	maxNetRetries = 1

	BaseDelay        = 500 * time.Millisecond
	MaxDelay         = 10 * time.Second
	maxRateLimitWait = 2 * time.Minute
)

// rateLimitError is returned when the API signals an exhausted rate
// limit; reset carries the time the window reopens.
type rateLimitError struct {
	reset time.Time
}

func (e *rateLimitError) Error() string {
	return fmt.Sprintf("rate limited until %s", e.reset.Format(time.RFC3339))
}

func (e *rateLimitError) Unwrap() error { return ErrRateLimitExceeded }

type retryableStatusError struct {
	StatusCode int
}

func (e *retryableStatusError) Error() string {
	return http.StatusText(e.StatusCode)
}

func isRetryableNet(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func backoffDelay(attempt int) time.Duration {
	return min(time.Duration(float64(BaseDelay)*math.Pow(2, float64(attempt))), MaxDelay)
}

// rateLimitReset derives the wait deadline from Retry-After or
// X-RateLimit-Reset; when neither is usable it falls back to one backoff
// interval from now.
func rateLimitReset(h http.Header) time.Time {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return time.Now().Add(time.Duration(secs) * time.Second)
		}
	}
	if v := h.Get("X-RateLimit-Reset"); v != "" {
		if unix, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Unix(unix, 0)
		}
	}
	return time.Now().Add(BaseDelay)
}

type retryPhase int

const (
	phaseAttempt retryPhase = iota
	phaseWait
	phaseFail
)

// withRetry runs fn through an explicit Attempt -> Wait -> Retry -> Fail
// state machine. Rate-limit and retryable server errors are attempted up
// to DefaultMaxRetries times, waiting out the advertised reset window
// (capped at maxRateLimitWait); transient network errors are retried
// once. Any other error fails immediately.
func withRetry[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := 0
	netAttempts := 0
	phase := phaseAttempt

	for {
		switch phase {
		case phaseAttempt:
			result, err := fn()
			if err == nil {
				return result, nil
			}
			lastErr = err
			phase = nextPhase(err, attempts, netAttempts)
		case phaseWait:
			delay := waitFor(lastErr, attempts)
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
			if isRetryableNet(lastErr) && !isLimitErr(lastErr) {
				netAttempts++
			} else {
				attempts++
			}
			phase = phaseAttempt
		case phaseFail:
			return zero, lastErr
		}
	}
}

func nextPhase(err error, attempts, netAttempts int) retryPhase {
	switch {
	case isLimitErr(err):
		if attempts < DefaultMaxRetries {
			return phaseWait
		}
	case isRetryableNet(err):
		if netAttempts < maxNetRetries {
			return phaseWait
		}
	}
	return phaseFail
}

// isLimitErr reports whether err warrants the bounded rate-limit budget
// rather than the single network retry.
func isLimitErr(err error) bool {
	var rl *rateLimitError
	if errors.As(err, &rl) {
		return true
	}
	var rs *retryableStatusError
	return errors.As(err, &rs)
}

func waitFor(err error, attempt int) time.Duration {
	var rl *rateLimitError
	if errors.As(err, &rl) {
		delay := time.Until(rl.reset)
		if delay < 0 {
			return 0
		}
		return min(delay, maxRateLimitWait)
	}
	return backoffDelay(attempt)
}
