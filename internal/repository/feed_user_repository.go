package repository

import (
	"context"

	"interest-feed/internal/domain/entity"
)

// FeedUserRepository defines persistence operations for feed users.
//
// Two independent writers touch this table: the feed request path writes the
// description column via UpsertDescription, and the index refresher writes the
// description_indexed and keywords columns via SetIndexed. The methods are
// column-disjoint so the writers never need coordination beyond row-level
// atomicity.
type FeedUserRepository interface {
	// UpsertDescription creates the user row if absent and refreshes the raw
	// profile description. It never touches the indexed columns.
	UpsertDescription(ctx context.Context, uri, description string) error

	// ListStale returns all users whose description differs from the one
	// their keywords were derived from, including never-enriched users.
	ListStale(ctx context.Context) ([]*entity.FeedUser, error)

	// ListIndexed returns all users with a non-null keyword set. Users that
	// have not been enriched yet are excluded.
	ListIndexed(ctx context.Context) ([]*entity.FeedUser, error)

	// SetIndexed records a completed enrichment: the description that was
	// enriched and the newline-joined keywords it produced.
	SetIndexed(ctx context.Context, uri, description, keywords string) error
}
