package provider

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"leadgen.ai/leadgen-api/app/domain/common"
	"leadgen.ai/leadgen-api/app/utils/logger"
)

var DefaultBackoff = []time.Duration{500 * time.Millisecond, time.Second, 2 * time.Second}

// RetryPolicy bounds how often a provider call is attempted.
// Only errors of kind provider_error are retried.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     []time.Duration
	// Timeout applies to each attempt, not to the whole call.
	Timeout time.Duration
}

func NewRetryPolicy(maxAttempts int, timeout time.Duration) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: maxAttempts,
		Backoff:     DefaultBackoff,
		Timeout:     timeout,
	}
}

// Delay returns the wait before the attempt that follows attempt (1-based).
// Past the end of the schedule the last step keeps doubling.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if len(p.Backoff) == 0 || attempt < 1 {
		return 0
	}
	if attempt <= len(p.Backoff) {
		return p.Backoff[attempt-1]
	}
	d := p.Backoff[len(p.Backoff)-1]
	for i := len(p.Backoff); i < attempt; i++ {
		d *= 2
	}
	return d
}

func (p RetryPolicy) Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		callCtx, cancel := ctx, context.CancelFunc(func() {})
		if p.Timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, p.Timeout)
		}
		err = fn(callCtx)
		cancel()
		if err == nil {
			return nil
		}
		if !common.IsRetryable(err) || attempt == attempts {
			return err
		}
		wait := p.Delay(attempt)
		logger.GetLogger().WithFields(logrus.Fields{
			"operation": operation,
			"attempt":   attempt,
			"wait":      wait.String(),
		}).Warnf("retrying provider call: %v", err)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
	return err
}

// Retry is Do for calls that return a value.
func Retry[T any](ctx context.Context, p RetryPolicy, operation string, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := p.Do(ctx, operation, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// Gate combines a token bucket with a retry policy for one provider.
type Gate struct {
	name    string
	policy  RetryPolicy
	limiter *rate.Limiter
}

func NewGate(name string, policy RetryPolicy, requestsPerSecond int) *Gate {
	limit := rate.Inf
	burst := 1
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
		burst = requestsPerSecond
	}
	return &Gate{name: name, policy: policy, limiter: rate.NewLimiter(limit, burst)}
}

func (g *Gate) Name() string {
	return g.name
}

// Call waits for a token before every attempt.
func Call[T any](ctx context.Context, g *Gate, fn func(ctx context.Context) (T, error)) (T, error) {
	return Retry(ctx, g.policy, g.name, func(ctx context.Context) (T, error) {
		if err := g.limiter.Wait(ctx); err != nil {
			var zero T
			return zero, err
		}
		return fn(ctx)
	})
}
