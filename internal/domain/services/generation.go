package services

import (
	"context"

	"quill/internal/domain/models"
)

// GenerationService drafts article text with an LLM and inserts the result
// as a new text block.
type GenerationService interface {
	// Generate runs one prompt. The job and the new block are stored
	// together; a provider failure is recorded as a failed job and returned.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error)

	// ListJobs returns an article's generation history, newest first
	ListJobs(ctx context.Context, articleID string) ([]models.GenerationJob, error)
}

// GenerateRequest targets a column of an article's document
type GenerateRequest struct {
	ArticleID   string `json:"-"`
	RequestedBy string `json:"-"`
	Section     int    `json:"section"`
	Column      int    `json:"column"`
	Prompt      string `json:"prompt"`
	Model       string `json:"model,omitempty"` // Empty uses the configured default
}

// GenerateResult is the finished job and the updated article
type GenerateResult struct {
	Job     *models.GenerationJob `json:"job"`
	Article *models.Article       `json:"article"`
}
