// Package repository declares the persistence interfaces consumed by the use
// case layer. Implementations live under internal/infra/adapter/persistence.
package repository

import (
	"context"

	"interest-feed/internal/domain/entity"
)

// PostRepository defines persistence operations for posts observed on the
// firehose.
type PostRepository interface {
	// CreateBatch inserts the given posts. Re-inserting a URI that already
	// exists must not fail, so a batch can be replayed after a crash.
	CreateBatch(ctx context.Context, posts []*entity.Post) error

	// DeleteByURIs removes any posts whose URI appears in uris. URIs with no
	// matching row are ignored.
	DeleteByURIs(ctx context.Context, uris []string) error
}
