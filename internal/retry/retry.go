// Package retry implements bounded retries with jittered exponential
// backoff for transient network failures. The state query uses it to
// ride out lookup timeouts; update submission deliberately does not —
// a failed apply must never be blindly re-sent.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"time"
)

// Config bounds the retry loop.
type Config struct {
	// MaxAttempts is the total number of tries, including the first.
	// Values below 1 behave as 1.
	MaxAttempts int

	// BaseDelay seeds the backoff; attempt n waits roughly
	// BaseDelay * 2^(n-1), jittered. Zero disables waiting.
	BaseDelay time.Duration

	// MaxDelay caps a single wait. Zero means uncapped.
	MaxDelay time.Duration
}

// Do runs fn until it succeeds, the error stops being retryable, or the
// attempt budget is spent. It returns the last error. Context
// cancellation wins over the budget at every step.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err = fn(); err == nil {
			return nil
		}
		if attempt == attempts || !IsRetryable(err) {
			return err
		}

		if !wait(ctx, delayFor(cfg, attempt)) {
			return ctx.Err()
		}
	}
}

// IsRetryable reports whether an error is likely transient. Lookups
// mostly fail with timeouts or temporary network errors when the path
// to the server hiccups; hard server responses are final and must not
// be retried.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, context.DeadlineExceeded):
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout() || netErr.Temporary()
	}
	return false
}

// delayFor doubles the base per attempt and applies equal jitter: half
// the backoff is fixed, half uniformly random, so concurrent zone
// checks against one server do not thunder in lockstep.
func delayFor(cfg Config, attempt int) time.Duration {
	if cfg.BaseDelay <= 0 {
		return 0
	}

	backoff := cfg.BaseDelay << (attempt - 1)
	if cfg.MaxDelay > 0 && backoff > cfg.MaxDelay {
		backoff = cfg.MaxDelay
	}

	half := backoff / 2
	if half <= 0 {
		return backoff
	}
	return half + time.Duration(rand.Int63n(int64(half)+1))
}

func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
