package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresGenerationJobRepository implements the GenerationJobRepository interface
type PostgresGenerationJobRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewGenerationJobRepository creates a new generation job repository
func NewGenerationJobRepository(config *RepositoryConfig) repositories.GenerationJobRepository {
	return &PostgresGenerationJobRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a pending job
func (r *PostgresGenerationJobRepository) Create(ctx context.Context, job *models.GenerationJob) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (article_id, requested_by, prompt, provider, model, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, r.tables.GenerationJobs)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		job.ArticleID,
		job.RequestedBy,
		job.Prompt,
		job.Provider,
		job.Model,
		job.Status,
		job.CreatedAt,
	).Scan(&job.ID, &job.CreatedAt)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("article %s: %w", job.ArticleID, domain.ErrNotFound)
		}
		return fmt.Errorf("create generation job: %w", err)
	}
	return nil
}

// Finish stores a job's terminal state
func (r *PostgresGenerationJobRepository) Finish(ctx context.Context, job *models.GenerationJob) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, output = $2, error = $3, block_id = $4, input_tokens = $5,
			output_tokens = $6, stop_reason = $7, completed_at = $8
		WHERE id = $9
	`, r.tables.GenerationJobs)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		job.Status,
		job.Output,
		job.Error,
		job.BlockID,
		job.InputTokens,
		job.OutputTokens,
		job.StopReason,
		job.CompletedAt,
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("finish generation job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("generation job %s: %w", job.ID, domain.ErrNotFound)
	}
	return nil
}

// ListByArticle returns an article's jobs, newest first
func (r *PostgresGenerationJobRepository) ListByArticle(ctx context.Context, articleID string) ([]models.GenerationJob, error) {
	query := fmt.Sprintf(`
		SELECT id, article_id, requested_by, prompt, provider, model, status, output, error,
			block_id, input_tokens, output_tokens, stop_reason, created_at, completed_at
		FROM %s
		WHERE article_id = $1
		ORDER BY created_at DESC
	`, r.tables.GenerationJobs)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("list generation jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]models.GenerationJob, 0)
	for rows.Next() {
		var j models.GenerationJob
		if err := rows.Scan(
			&j.ID,
			&j.ArticleID,
			&j.RequestedBy,
			&j.Prompt,
			&j.Provider,
			&j.Model,
			&j.Status,
			&j.Output,
			&j.Error,
			&j.BlockID,
			&j.InputTokens,
			&j.OutputTokens,
			&j.StopReason,
			&j.CreatedAt,
			&j.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan generation job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generation jobs: %w", err)
	}
	return jobs, nil
}
