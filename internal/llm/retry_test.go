package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// test generator that fails a configurable number of times
type countingGenerator struct {
	calls    int
	err      error
	failN    int // fail the first N calls, then succeed
	response string
}

func (g *countingGenerator) GenerateText(ctx context.Context, messages []Message) (string, error) {
	g.calls++

	if g.failN < 0 || g.calls <= g.failN {
		return "", g.err
	}

	return g.response, nil
}

func TestRetryingGeneratorSuccessFirstAttempt(t *testing.T) {
	inner := &countingGenerator{response: "hello"}
	g := NewRetryingGenerator(inner, 2, time.Millisecond)

	text, err := g.GenerateText(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})

	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, 1, inner.calls)
}

func TestRetryingGeneratorRetriesOnRateLimit(t *testing.T) {
	inner := &countingGenerator{
		err:      fmt.Errorf("status 429: %w", ErrRateLimited),
		failN:    1,
		response: "second time lucky",
	}
	g := NewRetryingGenerator(inner, 2, time.Millisecond)

	text, err := g.GenerateText(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})

	require.NoError(t, err)
	assert.Equal(t, "second time lucky", text)
	assert.Equal(t, 2, inner.calls)
}

func TestRetryingGeneratorExhaustsAttempts(t *testing.T) {
	inner := &countingGenerator{
		err:   fmt.Errorf("status 429: %w", ErrRateLimited),
		failN: -1, // never succeed
	}
	g := NewRetryingGenerator(inner, 2, time.Millisecond)

	_, err := g.GenerateText(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})

	require.Error(t, err)
	assert.Equal(t, 2, inner.calls, "should stop after the configured attempts")

	// callers can still classify the exhausted error as throttling
	assert.True(t, errors.Is(err, ErrRateLimited))
}

func TestRetryingGeneratorFailsFastOnOtherErrors(t *testing.T) {
	inner := &countingGenerator{
		err:   errors.New("invalid API key"),
		failN: -1,
	}
	g := NewRetryingGenerator(inner, 2, time.Millisecond)

	_, err := g.GenerateText(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})

	require.Error(t, err)
	assert.Equal(t, 1, inner.calls, "non-throttling errors should not be retried")
	assert.False(t, errors.Is(err, ErrRateLimited))
}

func TestRetryingGeneratorFailsFastOnEmptyResponse(t *testing.T) {
	inner := &countingGenerator{
		err:   ErrEmptyResponse,
		failN: -1,
	}
	g := NewRetryingGenerator(inner, 2, time.Millisecond)

	_, err := g.GenerateText(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})

	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.True(t, errors.Is(err, ErrEmptyResponse))
}

func TestRetryingGeneratorRespectsContextDuringDelay(t *testing.T) {
	inner := &countingGenerator{
		err:   fmt.Errorf("status 429: %w", ErrRateLimited),
		failN: -1,
	}
	g := NewRetryingGenerator(inner, 2, 10*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := g.GenerateText(ctx, []Message{{Role: RoleUser, Content: "hi"}})

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 5*time.Second, "cancellation should cut the delay short")
	assert.Equal(t, 1, inner.calls)
}

func TestRetryingGeneratorDefaults(t *testing.T) {
	inner := &countingGenerator{response: "ok"}

	g := NewRetryingGenerator(inner, 0, 0)
	assert.Equal(t, defaultRetryAttempts, g.attempts)
	assert.Equal(t, defaultRetryDelay, g.delay)
}
