package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/clinicshift/shift-scheduler/pkg/db"
)

// Get returns the stored collection blob for key
func (d *DB) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := d.pool.QueryRow(ctx, `
		SELECT value FROM app_state WHERE key = $1
	`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

// Set upserts the collection blob for key
func (d *DB) Set(ctx context.Context, key string, value []byte) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO app_state (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

var _ db.StateStore = (*DB)(nil)
