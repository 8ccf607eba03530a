package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"interest-feed/internal/repository"
)

type CursorRepo struct {
	db *sql.DB
}

func NewCursorRepo(db *sql.DB) repository.CursorRepository {
	return &CursorRepo{db: db}
}

func (repo *CursorRepo) Get(ctx context.Context, service string) (int64, error) {
	const query = `SELECT cursor FROM sub_state WHERE service = $1 LIMIT 1`
	var cursor int64
	err := repo.db.QueryRowContext(ctx, query, service).Scan(&cursor)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("Get: %w", err)
	}
	return cursor, nil
}

func (repo *CursorRepo) Save(ctx context.Context, service string, cursor int64) error {
	const query = `
INSERT INTO sub_state (service, cursor)
VALUES ($1, $2)
ON CONFLICT (service) DO UPDATE SET cursor = EXCLUDED.cursor`
	_, err := repo.db.ExecContext(ctx, query, service, cursor)
	if err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	return nil
}
