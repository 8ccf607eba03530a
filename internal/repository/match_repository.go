package repository

import (
	"context"

	"interest-feed/internal/domain/entity"
)

// MatchRepository defines persistence operations for feed match records.
type MatchRepository interface {
	// Create inserts a match. Inserting the same (uri, feed_user) pair twice
	// must be a no-op so batch replay after a crash stays idempotent.
	Create(ctx context.Context, match *entity.Match) error

	// ListForUser retrieves a user's matches ordered by indexedAt descending.
	// The cursor is opaque to callers; an empty next cursor means no more
	// results.
	ListForUser(ctx context.Context, feedUser string, limit int, cursor string) ([]*entity.Match, string, error)
}
