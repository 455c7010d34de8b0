package repositories

import (
	"context"

	"quill/internal/domain/models"
)

// ArticleRepository defines data access operations for articles
type ArticleRepository interface {
	// Create inserts an article and fills its ID and timestamps.
	// A taken slug yields a *domain.ConflictError.
	Create(ctx context.Context, article *models.Article) error

	// GetByID retrieves an article with its sections
	GetByID(ctx context.Context, id string) (*models.Article, error)

	// GetBySlug retrieves an article with its sections by slug
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)

	// List returns a page of article metadata (no sections) and the total
	// matching count, newest first
	List(ctx context.Context, filter models.ArticleFilter) ([]models.Article, int, error)

	// Update writes every mutable column and refreshes UpdatedAt
	Update(ctx context.Context, article *models.Article) error

	// Delete removes an article and its generation jobs
	Delete(ctx context.Context, id string) error
}

// GenerationJobRepository defines data access operations for AI generation jobs
type GenerationJobRepository interface {
	// Create inserts a pending job and fills its ID and CreatedAt
	Create(ctx context.Context, job *models.GenerationJob) error

	// Finish stores the terminal state (status, output, error, tokens, block)
	Finish(ctx context.Context, job *models.GenerationJob) error

	// ListByArticle returns an article's jobs, newest first
	ListByArticle(ctx context.Context, articleID string) ([]models.GenerationJob, error)
}
