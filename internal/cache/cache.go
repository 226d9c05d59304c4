package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"local-assistants/internal/prompt"
)

// Cache stores finished model responses.
type Cache interface {
	// GetResponse retrieves a cached response by key
	// Returns nil if not found
	GetResponse(ctx context.Context, key string) (*Response, error)

	// SetResponse stores a response with TTL
	SetResponse(ctx context.Context, key string, resp *Response, ttl time.Duration) error

	// Close closes the cache connection
	Close() error
}

// Response represents a cached model answer.
type Response struct {
	Text     string    `json:"text"`
	Model    string    `json:"model"`
	StoredAt time.Time `json:"stored_at"`
}

// Key derives the cache key for a model and prompt pair.
func Key(model string, pair prompt.Pair) string {
	h := sha256.New()
	for _, part := range []string{model, pair.System, pair.User} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
