package models

import "time"

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// GenerationJob records one AI text generation for an article, including
// where the resulting block went.
type GenerationJob struct {
	ID           string     `json:"id" db:"id"`
	ArticleID    string     `json:"article_id" db:"article_id"`
	RequestedBy  string     `json:"requested_by" db:"requested_by"`
	Prompt       string     `json:"prompt" db:"prompt"`
	Provider     string     `json:"provider" db:"provider"`
	Model        string     `json:"model" db:"model"`
	Status       JobStatus  `json:"status" db:"status"`
	Output       string     `json:"output,omitempty" db:"output"`
	Error        string     `json:"error,omitempty" db:"error"`
	BlockID      string     `json:"block_id,omitempty" db:"block_id"`
	InputTokens  int        `json:"input_tokens" db:"input_tokens"`
	OutputTokens int        `json:"output_tokens" db:"output_tokens"`
	StopReason   string     `json:"stop_reason,omitempty" db:"stop_reason"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}
