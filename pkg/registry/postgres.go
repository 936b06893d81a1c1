package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createArtifactsTable = `
CREATE TABLE IF NOT EXISTS model_artifacts (
	key        TEXT PRIMARY KEY,
	body       BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps blobs in a single table, one row per key.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects, checks the connection and makes sure the
// artifacts table exists.
func NewPostgresStore(ctx context.Context, url string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if _, err := pool.Exec(ctx, createArtifactsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create artifacts table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

const upsertArtifact = `
	INSERT INTO model_artifacts (key, body, updated_at) VALUES ($1, $2, now())
	ON CONFLICT (key) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`

func (s *PostgresStore) Put(ctx context.Context, key string, body []byte) error {
	if _, err := s.pool.Exec(ctx, upsertArtifact, key, body); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

// PutAll upserts every blob in one transaction.
func (s *PostgresStore) PutAll(ctx context.Context, blobs []Blob) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, b := range blobs {
		if _, err := tx.Exec(ctx, upsertArtifact, b.Key, b.Body); err != nil {
			return fmt.Errorf("store %s: %w", b.Key, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var body []byte
	err := s.pool.QueryRow(ctx, `SELECT body FROM model_artifacts WHERE key = $1`, key).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return body, nil
}

// Ping reports database health for readiness checks.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
