// Package retry implements bounded retry with exponential backoff. The sleep
// function is injectable so retry timing is testable without real delays.
package retry

import (
	"context"
	"errors"
	"time"
)

// Config tunes the retry loop.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// InitialBackoff is the wait before the first retry.
	InitialBackoff time.Duration
	// MaxBackoff caps the wait between retries.
	MaxBackoff time.Duration
	// Factor multiplies the backoff after each failed attempt.
	Factor float64
	// Sleep waits between attempts; defaults to a context-aware real sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultConfig matches the gateway defaults: 3 attempts, 2s..10s backoff.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialBackoff: 2 * time.Second,
		MaxBackoff:     10 * time.Second,
		Factor:         2.0,
	}
}

// permanentError marks a failure that must not be retried.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so Do fails immediately instead of retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err carries the no-retry marker.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// Do runs fn until it succeeds, returns a permanent error, or the attempt
// budget is spent. It reports the number of attempts used and the last error.
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context, attempt int) error) (int, error) {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Factor < 1 {
		cfg.Factor = 2.0
	}

	sleep := cfg.Sleep
	if sleep == nil {
		sleep = realSleep
	}

	backoff := cfg.InitialBackoff
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}

		err := fn(ctx, attempt)
		if err == nil {
			return attempt, nil
		}

		var pe *permanentError
		if errors.As(err, &pe) {
			return attempt, pe.err
		}

		lastErr = err
		if attempt == cfg.MaxAttempts {
			break
		}

		if backoff > 0 {
			if err := sleep(ctx, backoff); err != nil {
				return attempt, err
			}
		}

		backoff = time.Duration(float64(backoff) * cfg.Factor)
		if cfg.MaxBackoff > 0 && backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}

	return cfg.MaxAttempts, lastErr
}

func realSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
