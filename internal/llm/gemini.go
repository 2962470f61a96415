package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultGeminiModel = "gemini-2.0-flash"
)

// shared HTTP client for Gemini API calls
var geminiHTTPClient = &http.Client{
	Timeout: 60 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// rate limiter for Gemini API calls (50 requests/second with burst capacity of 10)
var geminiRateLimiter = rate.NewLimiter(50, 10)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float32 `json:"temperature,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

type GeminiConfig struct {
	APIKey      string
	Model       string  // e.g., "gemini-2.0-flash"
	MaxTokens   int     // max tokens for response
	Temperature float32 // 0.0 to 2.0

	// overrides the API base URL, used by tests
	BaseURL string
}

type GeminiGenerator struct {
	config     GeminiConfig
	httpClient *http.Client
}

func NewGeminiGenerator(config GeminiConfig) *GeminiGenerator {
	if config.Model == "" {
		config.Model = defaultGeminiModel
	}

	if config.BaseURL == "" {
		config.BaseURL = geminiBaseURL
	}

	return &GeminiGenerator{
		config:     config,
		httpClient: geminiHTTPClient,
	}
}

func (g *GeminiGenerator) Model() string {
	return g.config.Model
}

// generates a completion for the conversation. RoleAssistant messages are sent
// with Gemini's "model" role label.
func (g *GeminiGenerator) GenerateText(ctx context.Context, messages []Message) (string, error) {
	contents := make([]geminiContent, 0, len(messages))

	for _, msg := range messages {
		role := msg.Role

		if role == RoleAssistant {
			role = "model"
		}

		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: msg.Content}},
		})
	}

	reqBody := geminiRequest{
		Contents: contents,
	}

	if g.config.MaxTokens > 0 || g.config.Temperature > 0 {
		reqBody.GenerationConfig = &geminiGenerationConfig{
			MaxOutputTokens: g.config.MaxTokens,
			Temperature:     g.config.Temperature,
		}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", g.config.BaseURL, g.config.Model)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.config.APIKey)

	// rate limiting
	if err := geminiRateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("gemini API returned status %d: %w", resp.StatusCode, ErrRateLimited)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body) //nolint:errcheck
		return "", fmt.Errorf("gemini API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	text := strings.TrimSpace(apiResp.Candidates[0].Content.Parts[0].Text)

	if text == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}
