package connector

import (
	"context"
	"time"
)

// retryConnect runs connect once, then up to cfg.MaxRetries more times,
// multiplying the delay by cfg.Backoff between attempts. The wait honors
// context cancellation; a nil cfg means a single attempt.
func retryConnect(ctx context.Context, cfg *RetryConfig, connect func(context.Context) (Connection, error)) (Connection, error) {
	retries := 0
	backoff := 2.0
	delay := time.Second
	if cfg != nil {
		retries = cfg.MaxRetries
		if cfg.BaseDelay > 0 {
			delay = cfg.BaseDelay
		}
		if cfg.Backoff > 1 {
			backoff = cfg.Backoff
		}
	}

	var conn Connection
	var err error
	for attempt := 0; ; attempt++ {
		conn, err = connect(ctx)
		if err == nil {
			return conn, nil
		}
		if attempt >= retries {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * backoff)
		if cfg != nil && cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
}
