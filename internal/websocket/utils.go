package websocket

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"os"
	"strings"

	"codeberg.org/relaychat/server/internal/logger"
)

// reports whether a websocket handshake origin is acceptable. Outside
// production every origin passes; in production the Origin header must match
// one of the ALLOWED_ORIGINS entries exactly.
func CheckOrigin(r *http.Request) bool {
	if os.Getenv("ENVIRONMENT") != "production" {
		return true
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		logger.Warn("rejected websocket handshake without origin header")
		return false
	}

	for _, allowed := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if strings.TrimSpace(allowed) == origin {
			return true
		}
	}

	logger.Warn("rejected websocket handshake from disallowed origin",
		"origin", origin,
	)

	return false
}

// returns a random 32-character hex identifier for a new connection
func GenerateClientID() (string, error) {
	var buf [16]byte

	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf[:]), nil
}
