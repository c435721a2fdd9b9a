package client

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig configures retry behavior with exponential backoff.
type RetryConfig struct {
	MaxRetries     int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	BackoffFactor  float64
	JitterFraction float64 // 0.0 to 1.0, fraction of delay to randomize
}

// DefaultRetryConfig is tuned for transient Gemini API errors.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:     2,
	InitialDelay:   1 * time.Second,
	MaxDelay:       10 * time.Second,
	BackoffFactor:  2.0,
	JitterFraction: 0.2,
}

// WithRetry executes fn with exponential backoff and jitter.
// It stops on success, on an ExtractionError that is not retryable, when ctx
// is done, or once MaxRetries is exhausted.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		var extErr *ExtractionError
		if errors.As(err, &extErr) && !extErr.Retryable {
			return zero, err
		}
		if attempt >= cfg.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff(cfg, attempt)):
		}
	}

	return zero, lastErr
}

func backoff(cfg RetryConfig, attempt int) time.Duration {
	delay := float64(cfg.InitialDelay) * math.Pow(cfg.BackoffFactor, float64(attempt))
	if delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}

	if cfg.JitterFraction > 0 {
		delay += delay * cfg.JitterFraction * (rand.Float64()*2 - 1)
		if delay < 0 {
			delay = float64(cfg.InitialDelay)
		}
	}
	return time.Duration(delay)
}
