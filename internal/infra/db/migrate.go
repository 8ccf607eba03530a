package db

import "database/sql"

// MigrateUp creates the feed schema if it does not exist. Statements are
// idempotent so every process can run them at startup.
func MigrateUp(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS posts (
    uri          TEXT PRIMARY KEY,
    cid          TEXT NOT NULL,
    text         TEXT NOT NULL,
    reply_parent TEXT,
    reply_root   TEXT,
    indexed_at   TIMESTAMPTZ NOT NULL
)`,

		`CREATE TABLE IF NOT EXISTS feed_users (
    uri                 TEXT PRIMARY KEY,
    description         TEXT NOT NULL DEFAULT '',
    description_indexed TEXT,
    keywords            TEXT
)`,

		`CREATE TABLE IF NOT EXISTS feed_matches (
    uri        TEXT NOT NULL,
    cid        TEXT NOT NULL,
    feed_user  TEXT NOT NULL,
    indexed_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (uri, feed_user)
)`,

		`CREATE TABLE IF NOT EXISTS sub_state (
    service TEXT PRIMARY KEY,
    cursor  BIGINT NOT NULL
)`,

		// Feed pages are keyset-paginated per user, newest first.
		`CREATE INDEX IF NOT EXISTS idx_feed_matches_user_indexed_at
    ON feed_matches(feed_user, indexed_at DESC, cid DESC)`,

		// The refresher selects users whose description changed since
		// enrichment.
		`CREATE INDEX IF NOT EXISTS idx_feed_users_stale
    ON feed_users(uri)
    WHERE description_indexed IS NULL OR description_indexed <> description`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
