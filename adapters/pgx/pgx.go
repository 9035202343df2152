// Package pgx provides a Postgres-backed KeyValueStore for deployments
// where dashboard state must survive host changes, e.g. shared clinic
// terminals backed by a central database.
package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okabrera/medbill/core"
)

// Store keys rows by (owner, key) so one table serves every user of the
// database.
type Store struct {
	pool  *pgxpool.Pool
	owner string
}

var _ core.KeyValueStore = (*Store)(nil)

func New(pool *pgxpool.Pool, owner string) *Store {
	return &Store{pool: pool, owner: owner}
}

// Migrate creates the backing table when it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS medbill_kv (
			owner      TEXT        NOT NULL,
			key        TEXT        NOT NULL,
			value      BYTEA       NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (owner, key)
		)`)
	if err != nil {
		return fmt.Errorf("failed to migrate medbill_kv: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM medbill_kv WHERE owner = $1 AND key = $2`,
		s.owner, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO medbill_kv (owner, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (owner, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		s.owner, key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM medbill_kv WHERE owner = $1 AND key = $2`,
		s.owner, key,
	)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
