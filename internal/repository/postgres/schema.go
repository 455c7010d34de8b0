package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates tables and indexes if they don't exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames, tablePrefix string) error {
	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`); err != nil {
		return fmt.Errorf("enable uuid-ossp: %w", err)
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + tables.Articles + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			title TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			summary TEXT NOT NULL DEFAULT '',
			tags TEXT[] NOT NULL DEFAULT '{}',
			status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'published')),
			author_id TEXT NOT NULL,
			cover_image_url TEXT NOT NULL DEFAULT '',
			sections JSONB NOT NULL DEFAULT '[]',
			content TEXT NOT NULL DEFAULT '',
			word_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			published_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.GenerationJobs + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			article_id UUID NOT NULL REFERENCES ` + tables.Articles + `(id) ON DELETE CASCADE,
			requested_by TEXT NOT NULL DEFAULT '',
			prompt TEXT NOT NULL,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			status TEXT NOT NULL CHECK (status IN ('pending', 'completed', 'failed')),
			output TEXT NOT NULL DEFAULT '',
			error TEXT NOT NULL DEFAULT '',
			block_id TEXT NOT NULL DEFAULT '',
			input_tokens INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0,
			stop_reason TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			completed_at TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `articles_status_published ON ` + tables.Articles + `(status, published_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `articles_tags ON ` + tables.Articles + ` USING GIN (tags)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `generation_jobs_article ON ` + tables.GenerationJobs + `(article_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("run schema: %w", err)
		}
	}
	return nil
}

// DropAllTables drops every table, dependents first.
func DropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	for _, table := range tables.All() {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}
