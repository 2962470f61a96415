package errors

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// returns a client-safe rendering of err. In production, anything that could
// leak internals (database errors, upstream provider bodies) is replaced with
// a generic message; in development the original text is kept for debugging.
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}

	isProduction := os.Getenv("ENVIRONMENT") == "production"

	if !isProduction {
		return err.Error()
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return "database operation failed"
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return "resource not found"
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}

	if errors.Is(err, context.Canceled) {
		return "request canceled"
	}

	// fallback to string matching for unknown error types
	errMsg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "deadline"):
		return "request timed out"
	case strings.Contains(errMsg, "database") || strings.Contains(errMsg, "sql") ||
		strings.Contains(errMsg, "postgres"):
		return "database operation failed"
	case strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "dial"):
		return "connection error occurred"
	case strings.Contains(errMsg, "validation") || strings.Contains(errMsg, "binding") ||
		strings.Contains(errMsg, "required"):
		return "validation failed"
	}

	return "an error occurred"
}
