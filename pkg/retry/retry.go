// Package retry runs startup-time connection attempts with a fixed delay.
package retry

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	Attempts int           `envconfig:"STARTUP_RETRY_ATTEMPTS" default:"10"`
	Delay    time.Duration `envconfig:"STARTUP_RETRY_DELAY" default:"5s"`
}

// Do calls fn until it succeeds, the attempts are exhausted or ctx is done.
// The last error is returned.
func Do(ctx context.Context, cfg Config, log *zap.Logger, name string, fn func(ctx context.Context) error) error {
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		log.Warn("connection failed",
			zap.String("target", name),
			zap.Int("attempt", attempt),
			zap.Int("attempts", attempts),
			zap.Duration("retryIn", cfg.Delay),
			zap.Error(err))
		if attempt == attempts {
			break
		}
		select {
		case <-time.After(cfg.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
