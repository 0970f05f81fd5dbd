package nicepay

import (
	"context"
	"math/rand"
	"time"
)

// RetryOptions bounds the retry policy. Zero values take the defaults
// below.
type RetryOptions struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

const (
	defaultMaxRetries = 2
	defaultBaseDelay  = time.Second
	defaultMaxDelay   = 10 * time.Second
	maxJitter         = 500 * time.Millisecond
)

// WithRetry runs fn with bounded exponential backoff and random jitter.
// Only transport-level faults are retried; business rejections surface
// immediately. This must never wrap the approval call, since a timed-out
// approval goes through the net-cancel path, and a blind retry could
// double-charge. It exists for read-only or naturally idempotent
// operations such as inquiries.
func WithRetry(ctx context.Context, fn func() error, opts RetryOptions) error {
	if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.BaseDelay == 0 {
		opts.BaseDelay = defaultBaseDelay
	}
	if opts.MaxDelay == 0 {
		opts.MaxDelay = defaultMaxDelay
	}

	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if attempt == opts.MaxRetries || !IsNetworkFault(err) {
			return err
		}

		delay := opts.BaseDelay<<uint(attempt) + time.Duration(rand.Int63n(int64(maxJitter)))
		if delay > opts.MaxDelay {
			delay = opts.MaxDelay
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return err
		}
	}
}
