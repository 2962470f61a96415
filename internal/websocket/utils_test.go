package websocket

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkOriginFor(t *testing.T, origin string) bool {
	t.Helper()

	req := httptest.NewRequest("GET", "/api/v1/ws", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}

	return CheckOrigin(req)
}

func TestCheckOriginDevelopmentAllowsAll(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("ALLOWED_ORIGINS", "")

	assert.True(t, checkOriginFor(t, "http://anything.example.com"))
	assert.True(t, checkOriginFor(t, ""))
}

func TestCheckOriginProductionRequiresHeader(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com")

	assert.False(t, checkOriginFor(t, ""))
}

func TestCheckOriginProductionMatchesAllowList(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	// entries are trimmed before comparison
	assert.True(t, checkOriginFor(t, "https://app.example.com"))
	assert.True(t, checkOriginFor(t, "https://staging.example.com"))

	assert.False(t, checkOriginFor(t, "https://evil.example.com"))
}

func TestCheckOriginProductionUnconfiguredRejects(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("ALLOWED_ORIGINS", "")

	assert.False(t, checkOriginFor(t, "https://app.example.com"))
}

func TestGenerateClientID(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		id, err := GenerateClientID()
		require.NoError(t, err)
		assert.Len(t, id, 32)
		assert.False(t, seen[id], "client IDs should not repeat")
		seen[id] = true
	}
}
