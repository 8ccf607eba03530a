package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"interest-feed/internal/domain/entity"
	"interest-feed/internal/repository"
)

type MatchRepo struct {
	db *sql.DB
}

func NewMatchRepo(db *sql.DB) repository.MatchRepository {
	return &MatchRepo{db: db}
}

// Create inserts a match record. The composite key (uri, feed_user) makes the
// insert conflict-free under at-least-once batch delivery.
func (repo *MatchRepo) Create(ctx context.Context, match *entity.Match) error {
	const query = `
INSERT INTO feed_matches
       (uri, cid, feed_user, indexed_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (uri, feed_user) DO NOTHING`
	_, err := repo.db.ExecContext(ctx, query,
		match.URI, match.CID, match.FeedUser, match.IndexedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// ListForUser pages through a user's matches newest first. The cursor encodes
// the last row as "<unix-micro>::<cid>" so pagination stays stable while new
// matches arrive at the head of the feed.
func (repo *MatchRepo) ListForUser(ctx context.Context, feedUser string, limit int, cursor string) ([]*entity.Match, string, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if cursor == "" {
		const query = `
SELECT uri, cid, feed_user, indexed_at
FROM feed_matches
WHERE feed_user = $1
ORDER BY indexed_at DESC, cid DESC
LIMIT $2`
		rows, err = repo.db.QueryContext(ctx, query, feedUser, limit)
	} else {
		indexedAt, cid, parseErr := parseCursor(cursor)
		if parseErr != nil {
			return nil, "", fmt.Errorf("ListForUser: %w", parseErr)
		}
		const query = `
SELECT uri, cid, feed_user, indexed_at
FROM feed_matches
WHERE feed_user = $1
  AND (indexed_at, cid) < ($2, $3)
ORDER BY indexed_at DESC, cid DESC
LIMIT $4`
		rows, err = repo.db.QueryContext(ctx, query, feedUser, indexedAt, cid, limit)
	}
	if err != nil {
		return nil, "", fmt.Errorf("ListForUser: %w", err)
	}
	defer func() { _ = rows.Close() }()

	matches := make([]*entity.Match, 0, limit)
	for rows.Next() {
		var match entity.Match
		if err := rows.Scan(&match.URI, &match.CID,
			&match.FeedUser, &match.IndexedAt); err != nil {
			return nil, "", fmt.Errorf("ListForUser: Scan: %w", err)
		}
		matches = append(matches, &match)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("ListForUser: %w", err)
	}

	next := ""
	if len(matches) == limit && limit > 0 {
		last := matches[len(matches)-1]
		next = formatCursor(last.IndexedAt, last.CID)
	}
	return matches, next, nil
}

func formatCursor(indexedAt time.Time, cid string) string {
	return strconv.FormatInt(indexedAt.UnixMicro(), 10) + "::" + cid
}

func parseCursor(cursor string) (time.Time, string, error) {
	ts, cid, ok := strings.Cut(cursor, "::")
	if !ok {
		return time.Time{}, "", fmt.Errorf("malformed cursor %q", cursor)
	}
	micros, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("malformed cursor %q: %w", cursor, err)
	}
	return time.UnixMicro(micros).UTC(), cid, nil
}
