package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/scribe-ai/scribe/internal/logging"
)

const (
	defaultMaxAttempts = 3
	baseBackoff        = 500 * time.Millisecond
)

// WithRetry wraps p so transient failures are retried with exponential
// backoff. Configuration and response errors pass through on the first
// attempt; only ErrUnavailable is retried.
func WithRetry(p Provider, maxAttempts int) Provider {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &retrier{p: p, maxAttempts: maxAttempts, sleep: sleepCtx}
}

type retrier struct {
	p           Provider
	maxAttempts int
	sleep       func(context.Context, time.Duration) error
}

func (r *retrier) Name() string { return r.p.Name() }

func (r *retrier) Complete(ctx context.Context, req Request) (*Response, error) {
	var last error
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := baseBackoff << (attempt - 1)
			logging.Debugf("%s unavailable, retrying in %v (attempt %d/%d)",
				r.p.Name(), delay, attempt+1, r.maxAttempts)
			if err := r.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}
		resp, err := r.p.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		last = err
	}
	return nil, fmt.Errorf("%s: giving up after %d attempts: %w", r.p.Name(), r.maxAttempts, last)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
