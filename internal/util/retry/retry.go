package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Policy bounds a retry loop.
type Policy struct {
	Attempts     int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64

	// OnRetry is called before each wait with the failed attempt number.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultPolicy suits calls to an object store.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:     4,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
}

// Option adjusts a Policy.
type Option func(*Policy)

// WithAttempts sets the total number of attempts, including the first.
func WithAttempts(n int) Option {
	return func(p *Policy) {
		p.Attempts = n
	}
}

// WithDelays sets the initial and maximum wait between attempts.
func WithDelays(initial, maxDelay time.Duration) Option {
	return func(p *Policy) {
		p.InitialDelay = initial
		p.MaxDelay = maxDelay
	}
}

// WithOnRetry installs a hook called before every wait.
func WithOnRetry(fn func(attempt int, err error, wait time.Duration)) Option {
	return func(p *Policy) {
		p.OnRetry = fn
	}
}

// Do runs op until it succeeds, returns a permanent error, the attempts are
// used up or ctx is done. The returned error wraps the last failure.
func Do(ctx context.Context, op func(context.Context) error, opts ...Option) error {
	p := DefaultPolicy()
	for _, opt := range opts {
		opt(&p)
	}
	if p.Attempts < 1 {
		p.Attempts = 1
	}

	wait := p.InitialDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = op(ctx); err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if attempt >= p.Attempts {
			break
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, err, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("canceled after %d attempt(s): %w", attempt, errors.Join(ctx.Err(), err))
		case <-timer.C:
		}

		wait = time.Duration(float64(wait) * p.Multiplier)
		if p.MaxDelay > 0 && wait > p.MaxDelay {
			wait = p.MaxDelay
		}
	}

	return fmt.Errorf("giving up after %d attempt(s): %w", p.Attempts, err)
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. Do returns err unwrapped.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}
