package conversation

import (
	"context"
	"strings"
)

// NewStore creates a redis- or postgres-backed store when configured,
// otherwise the process-local in-memory store.
func NewStore(ctx context.Context, redisURL, databaseURL string) (Store, error) {
	if strings.TrimSpace(redisURL) != "" {
		return NewRedisStore(ctx, redisURL)
	}
	if strings.TrimSpace(databaseURL) != "" {
		return NewPostgresStore(ctx, databaseURL)
	}
	return NewInMemoryStore(), nil
}
