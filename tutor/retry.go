package tutor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ibreez3/socratic-relay/metrics"
	"github.com/sirupsen/logrus"
)

const (
	DefaultMaxAttempts  = 5
	DefaultInitialDelay = 2000 * time.Millisecond
)

// SleepFunc waits for d or until ctx is done, whichever comes first.
type SleepFunc func(ctx context.Context, d time.Duration) error

func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Retrier retries rate limited calls with exponential backoff. Only errors
// wrapping ErrRateLimited are retried; the delay doubles after every wait
// without an upper bound.
type Retrier struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Sleep        SleepFunc
	Log          logrus.FieldLogger
	Metrics      *metrics.Metrics
}

func NewRetrier(maxAttempts int, initialDelay time.Duration) *Retrier {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if initialDelay < 0 {
		initialDelay = DefaultInitialDelay
	}
	return &Retrier{
		MaxAttempts:  maxAttempts,
		InitialDelay: initialDelay,
		Sleep:        Sleep,
		Log:          logrus.StandardLogger(),
	}
}

func (r *Retrier) WithLogger(log logrus.FieldLogger) *Retrier {
	r.Log = log
	return r
}

func (r *Retrier) WithMetrics(m *metrics.Metrics) *Retrier {
	r.Metrics = m
	return r
}

// Do runs call until it succeeds, fails with a non rate limit error, or
// MaxAttempts rate limited attempts have been made. No wait follows the
// last attempt.
func (r *Retrier) Do(ctx context.Context, call func(ctx context.Context) (string, error)) (string, error) {
	attempts := r.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	log := r.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	delay := r.InitialDelay
	for attempt := 1; ; attempt++ {
		start := time.Now()
		text, err := call(ctx)
		if err == nil {
			r.Metrics.ObserveAttempt(metrics.OutcomeOK, time.Since(start))
			return text, nil
		}
		if !errors.Is(err, ErrRateLimited) {
			r.Metrics.ObserveAttempt(metrics.OutcomeError, time.Since(start))
			return "", fmt.Errorf("%w: %w", ErrUpstream, err)
		}
		r.Metrics.ObserveAttempt(metrics.OutcomeRateLimited, time.Since(start))

		if attempt >= attempts {
			r.Metrics.IncExhausted()
			log.WithField("attempts", attempts).Error("rate limit persisted, giving up")
			return "", fmt.Errorf("%w (%d attempts)", ErrRetriesExhausted, attempts)
		}

		log.WithFields(logrus.Fields{
			"attempt":      attempt,
			"max_attempts": attempts,
			"delay":        delay.String(),
		}).Warn("rate limit hit, retrying")
		r.Metrics.IncRetry()
		if err := sleep(ctx, delay); err != nil {
			return "", err
		}
		delay *= 2
	}
}
