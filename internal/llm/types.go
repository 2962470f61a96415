package llm

import (
	"context"
	"errors"
	"time"
)

// represents different LLM providers
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
)

// upstream failure kinds callers can branch on with errors.Is
var (
	// the provider signalled throttling (HTTP 429)
	ErrRateLimited = errors.New("upstream rate limited")

	// the provider returned success but no usable content
	ErrEmptyResponse = errors.New("empty response from upstream")
)

// message roles at the generator boundary. Providers translate RoleAssistant
// to their own assistant label on the wire.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// a single message in a conversation history
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// generates a completion for an ordered conversation history
type TextGenerator interface {
	GenerateText(ctx context.Context, messages []Message) (string, error)
}

// holds configuration for generator initialization
type Config struct {
	Provider    Provider
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32

	// retry policy for rate-limited requests
	RetryAttempts int
	RetryDelay    time.Duration
}
