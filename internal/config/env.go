package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// how many turns of conversation history a session keeps as prompt context
const defaultTranscriptCap = 10

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have a .env file
	}

	databaseURL := os.Getenv("DATABASE_URL")
	jwtSecret := os.Getenv("JWT_SECRET")
	environment := os.Getenv("ENVIRONMENT")

	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if environment == "" {
		environment = "development"
	}

	transcriptCap := defaultTranscriptCap

	if capStr := os.Getenv("TRANSCRIPT_CAP"); capStr != "" {
		val, err := strconv.Atoi(capStr)
		if err != nil || val <= 0 {
			return nil, fmt.Errorf("TRANSCRIPT_CAP must be a positive integer, got %q", capStr)
		}

		transcriptCap = val
	}

	return &Config{
		DatabaseURL:   databaseURL,
		JWTSecret:     jwtSecret,
		Environment:   environment,
		TranscriptCap: transcriptCap,
	}, nil
}
