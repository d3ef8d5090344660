// Package connect retries startup connections to backing services.
package connect

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// Policy controls the exponential backoff between attempts.
type Policy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultPolicy returns the policy used at startup.
func DefaultPolicy(maxElapsed time.Duration) Policy {
	return Policy{
		InitialInterval: 250 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		MaxElapsedTime:  maxElapsed,
	}
}

// Retry calls dial until it succeeds, ctx is done or the policy gives up.
// Errors wrapped with backoff.Permanent stop the retries immediately.
func Retry[T any](ctx context.Context, logger zerolog.Logger, name string, policy Policy, dial func(context.Context) (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = policy.InitialInterval
	b.MaxInterval = policy.MaxInterval
	b.MaxElapsedTime = policy.MaxElapsedTime

	attempt := 0
	return backoff.RetryNotifyWithData(func() (T, error) {
		attempt++
		return dial(ctx)
	}, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		logger.Warn().
			Err(err).
			Str("service", name).
			Int("attempt", attempt).
			Dur("retry_in", wait).
			Msg("connection failed, retrying")
	})
}
