package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"quill/internal/domain/repositories"
)

// Pool sizing; logged by the server at startup
const (
	MaxConns = 25
	MinConns = 5
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Articles       string
	GenerationJobs string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Articles:       fmt.Sprintf("%sarticles", prefix),
		GenerationJobs: fmt.Sprintf("%sgeneration_jobs", prefix),
	}
}

// All returns every table, dependents first (safe drop order).
func (t *TableNames) All() []string {
	return []string{t.GenerationJobs, t.Articles}
}

// CreateConnectionPool creates a pgx connection pool.
//
// Behind PgBouncer in transaction pooling mode (port 6543) prepared
// statements are unavailable, so the pool switches to
// QueryExecModeCacheDescribe: extended protocol (JSONB sections encode
// correctly) without server-side prepared statements. An explicit
// default_query_exec_mode in the URL takes precedence.
//
// Table names are interpolated with fmt.Sprintf before the SQL reaches the
// server; they come from configuration, never from requests.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = MaxConns
	config.MinConns = MinConns

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the appropriate query executor for the context.
// If a transaction is present in the context, it returns the transaction.
// Otherwise, it returns the provided pool.
// This enables repositories to automatically participate in transactions when they exist.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	// Check if there's a transaction in the context
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	// No transaction, use the pool
	return pool
}
