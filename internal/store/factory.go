package store

import (
	"context"
	"strings"
)

// NewStore selects the backing implementation: Postgres when a DSN is
// configured, otherwise the in-memory store used for local development.
func NewStore(ctx context.Context, databaseURL string) (Store, error) {
	if strings.TrimSpace(databaseURL) != "" {
		return NewPostgresStore(ctx, databaseURL)
	}
	return NewInMemoryStore(), nil
}
