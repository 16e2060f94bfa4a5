package id

import (
	"strings"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request id on requests and responses.
const RequestIDHeader = "X-Request-Id"

// UUID generates a random UUID v4.
func UUID() string {
	return uuid.NewString()
}

// Short returns the first 16 hex characters of a random UUID.
func Short() string {
	return strings.ReplaceAll(UUID(), "-", "")[:16]
}

// RequestID returns incoming when it is a usable request id and a new UUID
// otherwise.
func RequestID(incoming string) string {
	incoming = strings.TrimSpace(incoming)
	if incoming == "" || len(incoming) > 128 || strings.ContainsAny(incoming, "\r\n") {
		return UUID()
	}
	return incoming
}
