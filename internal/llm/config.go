package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// loadConfig loads generator configuration from environment variables
func loadConfig() (*Config, error) {
	provider := Provider(os.Getenv("LLM_PROVIDER"))
	if provider == "" {
		provider = ProviderGemini // default
	}

	var apiKey, model string

	switch provider {
	case ProviderGemini:
		apiKey = os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
		}

		model = os.Getenv("GEMINI_MODEL")
		if model == "" {
			model = "gemini-2.0-flash" // default
		}

	case ProviderAnthropic:
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
		}

		model = os.Getenv("ANTHROPIC_MODEL")
		if model == "" {
			model = "claude-3-5-haiku-20241022" // default
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}

	maxTokens := 1024 // default
	if maxTokensStr := os.Getenv("LLM_MAX_TOKENS"); maxTokensStr != "" {
		if val, err := strconv.Atoi(maxTokensStr); err == nil {
			maxTokens = val
		}
	}

	temperature := float32(0.7) // default
	if tempStr := os.Getenv("LLM_TEMPERATURE"); tempStr != "" {
		if val, err := strconv.ParseFloat(tempStr, 32); err == nil {
			temperature = float32(val)
		}
	}

	retryAttempts := defaultRetryAttempts
	if attemptsStr := os.Getenv("LLM_RETRY_ATTEMPTS"); attemptsStr != "" {
		if val, err := strconv.Atoi(attemptsStr); err == nil && val > 0 {
			retryAttempts = val
		}
	}

	retryDelay := defaultRetryDelay
	if delayStr := os.Getenv("LLM_RETRY_DELAY_MS"); delayStr != "" {
		if val, err := strconv.Atoi(delayStr); err == nil && val >= 0 {
			retryDelay = time.Duration(val) * time.Millisecond
		}
	}

	return &Config{
		Provider:      provider,
		APIKey:        apiKey,
		Model:         model,
		MaxTokens:     maxTokens,
		Temperature:   temperature,
		RetryAttempts: retryAttempts,
		RetryDelay:    retryDelay,
	}, nil
}
