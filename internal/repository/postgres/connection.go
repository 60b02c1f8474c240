// Package postgres implements the write-through persister on a
// PostgreSQL pool. The in-memory store remains authoritative at
// runtime; this layer only makes mutations durable and reloads the
// snapshot at boot.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect creates a connection pool and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Schema is the DDL for the persistence tables, applied at boot with
// CREATE IF NOT EXISTS semantics.
const Schema = `
CREATE TABLE IF NOT EXISTS folders (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	parent_id     TEXT,
	date_created  TIMESTAMPTZ NOT NULL,
	last_accessed TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS documents (
	id                 TEXT PRIMARY KEY,
	title              TEXT NOT NULL,
	content            TEXT NOT NULL DEFAULT '',
	doc_type           TEXT NOT NULL,
	ocr_pages          JSONB,
	category           TEXT NOT NULL DEFAULT '',
	keywords_resume    TEXT NOT NULL DEFAULT '',
	tags               TEXT[],
	source_document_id TEXT,
	folder_id          TEXT,
	sort_order         INTEGER NOT NULL DEFAULT 0,
	date_created       TIMESTAMPTZ NOT NULL,
	last_accessed      TIMESTAMPTZ NOT NULL,
	pdf_data           BYTEA,
	image_data         BYTEA[],
	original_file_data BYTEA
);

CREATE INDEX IF NOT EXISTS idx_documents_folder ON documents (folder_id);
CREATE INDEX IF NOT EXISTS idx_folders_parent ON folders (parent_id);
`

// EnsureSchema applies the schema.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
