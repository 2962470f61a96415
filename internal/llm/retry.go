package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codeberg.org/relaychat/server/internal/logger"
)

const (
	defaultRetryAttempts = 2
	defaultRetryDelay    = 1200 * time.Millisecond
)

// wraps a TextGenerator with bounded retry on rate-limit signals. Any other
// failure is returned immediately without retry. Exhausting all attempts
// returns an error wrapping ErrRateLimited so callers can still classify it.
type RetryingGenerator struct {
	inner    TextGenerator
	attempts int
	delay    time.Duration
}

func NewRetryingGenerator(inner TextGenerator, attempts int, delay time.Duration) *RetryingGenerator {
	if attempts <= 0 {
		attempts = defaultRetryAttempts
	}

	if delay <= 0 {
		delay = defaultRetryDelay
	}

	return &RetryingGenerator{
		inner:    inner,
		attempts: attempts,
		delay:    delay,
	}
}

func (g *RetryingGenerator) GenerateText(ctx context.Context, messages []Message) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= g.attempts; attempt++ {
		text, err := g.inner.GenerateText(ctx, messages)
		if err == nil {
			return text, nil
		}

		// fail fast on anything that isn't throttling
		if !errors.Is(err, ErrRateLimited) {
			return "", err
		}

		lastErr = err

		logger.Warn("upstream rate limited",
			"attempt", attempt,
			"max_attempts", g.attempts,
		)

		// fixed inter-attempt delay, cancellable via context
		if attempt < g.attempts {
			select {
			case <-time.After(g.delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	return "", fmt.Errorf("retries exhausted after %d attempts: %w", g.attempts, lastErr)
}
