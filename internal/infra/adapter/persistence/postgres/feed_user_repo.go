package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"interest-feed/internal/domain/entity"
	"interest-feed/internal/repository"
)

type FeedUserRepo struct {
	db *sql.DB
}

func NewFeedUserRepo(db *sql.DB) repository.FeedUserRepository {
	return &FeedUserRepo{db: db}
}

// UpsertDescription writes only the description column. The indexed columns
// belong to the refresher and are left untouched on conflict.
func (repo *FeedUserRepo) UpsertDescription(ctx context.Context, uri, description string) error {
	const query = `
INSERT INTO feed_users (uri, description)
VALUES ($1, $2)
ON CONFLICT (uri) DO UPDATE SET description = EXCLUDED.description`
	_, err := repo.db.ExecContext(ctx, query, uri, description)
	if err != nil {
		return fmt.Errorf("UpsertDescription: %w", err)
	}
	return nil
}

func (repo *FeedUserRepo) ListStale(ctx context.Context) ([]*entity.FeedUser, error) {
	const query = `
SELECT uri, description, description_indexed, keywords
FROM feed_users
WHERE description_indexed IS NULL
   OR description_indexed <> description`
	return repo.list(ctx, "ListStale", query)
}

func (repo *FeedUserRepo) ListIndexed(ctx context.Context) ([]*entity.FeedUser, error) {
	const query = `
SELECT uri, description, description_indexed, keywords
FROM feed_users
WHERE keywords IS NOT NULL`
	return repo.list(ctx, "ListIndexed", query)
}

func (repo *FeedUserRepo) SetIndexed(ctx context.Context, uri, description, keywords string) error {
	const query = `
UPDATE feed_users SET
       description_indexed = $2,
       keywords            = $3
WHERE uri = $1`
	res, err := repo.db.ExecContext(ctx, query, uri, description, keywords)
	if err != nil {
		return fmt.Errorf("SetIndexed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("SetIndexed: no rows affected")
	}
	return nil
}

func (repo *FeedUserRepo) list(ctx context.Context, op, query string) ([]*entity.FeedUser, error) {
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	users := make([]*entity.FeedUser, 0, 64)
	for rows.Next() {
		var user entity.FeedUser
		if err := rows.Scan(&user.URI, &user.Description,
			&user.DescriptionIndexed, &user.Keywords); err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}
