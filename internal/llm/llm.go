package llm

import (
	"fmt"
)

// creates a new text generator with auto-configuration from environment variables
func NewTextGenerator() (TextGenerator, error) {
	config, err := loadConfig()

	if err != nil {
		return nil, fmt.Errorf("failed to load LLM config: %w", err)
	}

	return NewTextGeneratorWithConfig(config)
}

// creates a new text generator with explicit configuration. The returned
// generator retries rate-limited requests per the configured policy.
func NewTextGeneratorWithConfig(config *Config) (TextGenerator, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	var generator TextGenerator

	switch config.Provider {
	case ProviderGemini:
		generator = NewGeminiGenerator(GeminiConfig{
			APIKey:      config.APIKey,
			Model:       config.Model,
			MaxTokens:   config.MaxTokens,
			Temperature: config.Temperature,
		})

	case ProviderAnthropic:
		generator = NewAnthropicGenerator(AnthropicConfig{
			APIKey:      config.APIKey,
			Model:       config.Model,
			MaxTokens:   config.MaxTokens,
			Temperature: config.Temperature,
		})

	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}

	return NewRetryingGenerator(generator, config.RetryAttempts, config.RetryDelay), nil
}
