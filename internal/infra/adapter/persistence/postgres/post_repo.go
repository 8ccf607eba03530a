// Package postgres implements the repository interfaces on PostgreSQL using
// database/sql with the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"interest-feed/internal/domain/entity"
	"interest-feed/internal/repository"
)

type PostRepo struct {
	db *sql.DB
}

func NewPostRepo(db *sql.DB) repository.PostRepository {
	return &PostRepo{db: db}
}

// CreateBatch inserts posts one by one. ON CONFLICT DO NOTHING keeps the
// operation safe under batch replay: a post already inserted by a previous
// attempt is silently skipped.
func (repo *PostRepo) CreateBatch(ctx context.Context, posts []*entity.Post) error {
	const query = `
INSERT INTO posts
       (uri, cid, text, reply_parent, reply_root, indexed_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (uri) DO NOTHING`
	for _, post := range posts {
		_, err := repo.db.ExecContext(ctx, query,
			post.URI, post.CID, post.Text,
			post.ReplyParent, post.ReplyRoot, post.IndexedAt,
		)
		if err != nil {
			return fmt.Errorf("CreateBatch: %w", err)
		}
	}
	return nil
}

func (repo *PostRepo) DeleteByURIs(ctx context.Context, uris []string) error {
	if len(uris) == 0 {
		return nil
	}
	const query = `DELETE FROM posts WHERE uri = ANY($1)`
	_, err := repo.db.ExecContext(ctx, query, pq.Array(uris))
	if err != nil {
		return fmt.Errorf("DeleteByURIs: %w", err)
	}
	return nil
}
