package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiTestServer(t *testing.T, handler http.HandlerFunc) *GeminiGenerator {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewGeminiGenerator(GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-2.0-flash",
		BaseURL: server.URL,
	})
}

func TestGeminiGenerateTextSuccess(t *testing.T) {
	g := geminiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Contains(t, r.URL.Path, "gemini-2.0-flash:generateContent")
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 2)

		// assistant turns travel under Gemini's "model" role label
		assert.Equal(t, "user", req.Contents[0].Role)
		assert.Equal(t, "model", req.Contents[1].Role)

		w.Write([]byte(`{"candidates": [{"content": {"role": "model", "parts": [{"text": "  hi there  "}]}, "finishReason": "STOP"}]}`)) //nolint:errcheck
	})

	text, err := g.GenerateText(context.Background(), []Message{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "previous answer"},
	})

	require.NoError(t, err)
	assert.Equal(t, "hi there", text, "response text should be trimmed")
}

func TestGeminiGenerateTextRateLimited(t *testing.T) {
	g := geminiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := g.GenerateText(context.Background(), []Message{{Role: RoleUser, Content: "hello"}})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRateLimited))
}

func TestGeminiGenerateTextServerError(t *testing.T) {
	g := geminiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "internal"}`)) //nolint:errcheck
	})

	_, err := g.GenerateText(context.Background(), []Message{{Role: RoleUser, Content: "hello"}})

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrRateLimited), "5xx should not be classified as throttling")
}

func TestGeminiGenerateTextEmptyCandidates(t *testing.T) {
	g := geminiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`)) //nolint:errcheck
	})

	_, err := g.GenerateText(context.Background(), []Message{{Role: RoleUser, Content: "hello"}})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyResponse))
}

func TestGeminiGenerateTextBlankText(t *testing.T) {
	g := geminiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": [{"content": {"role": "model", "parts": [{"text": "   "}]}}]}`)) //nolint:errcheck
	})

	_, err := g.GenerateText(context.Background(), []Message{{Role: RoleUser, Content: "hello"}})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyResponse))
}

func TestGeminiDefaultModel(t *testing.T) {
	g := NewGeminiGenerator(GeminiConfig{APIKey: "k"})
	assert.Equal(t, defaultGeminiModel, g.Model())
}
