package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	llmprovider "github.com/haowjy/meridian-llm-go"

	"quill/internal/config"
	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/domain/models/blocks"
	"quill/internal/domain/repositories"
	"quill/internal/domain/services"
)

const textBlockType = "text"

// instructions frames every prompt. The provider's answer becomes the body
// of a single text block, so it must be plain markdown with no preamble.
const instructions = `You are drafting part of a blog article titled %q.
Reply with markdown only: no preamble, no closing remarks, no code fence around the whole answer.

%s`

// Resolver maps a model string to a provider
type Resolver interface {
	Resolve(model string) (TextGenerator, *ModelInfo, error)
}

// generationService implements the GenerationService interface
type generationService struct {
	articleService services.ArticleService
	jobRepo        repositories.GenerationJobRepository
	txManager      repositories.TransactionManager
	providers      Resolver
	defaultModel   string
	logger         *slog.Logger
	now            func() time.Time
}

// NewGenerationService creates a new generation service
func NewGenerationService(
	articleService services.ArticleService,
	jobRepo repositories.GenerationJobRepository,
	txManager repositories.TransactionManager,
	providers Resolver,
	cfg *config.Config,
	logger *slog.Logger,
) services.GenerationService {
	return &generationService{
		articleService: articleService,
		jobRepo:        jobRepo,
		txManager:      txManager,
		providers:      providers,
		defaultModel:   cfg.DefaultModel,
		logger:         logger,
		now:            time.Now,
	}
}

// Generate runs a prompt and appends the answer as a text block
func (s *generationService) Generate(ctx context.Context, req *services.GenerateRequest) (*services.GenerateResult, error) {
	req.Prompt = strings.TrimSpace(req.Prompt)
	req.Model = strings.TrimSpace(req.Model)
	if err := s.validateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	model := req.Model
	if model == "" {
		model = s.defaultModel
	}
	provider, info, err := s.providers.Resolve(model)
	if err != nil {
		return nil, err
	}

	article, err := s.articleService.GetArticle(ctx, req.ArticleID)
	if err != nil {
		return nil, err
	}
	if err := checkTarget(article.Document(), req.Section, req.Column); err != nil {
		return nil, err
	}

	job := &models.GenerationJob{
		ArticleID:   req.ArticleID,
		RequestedBy: req.RequestedBy,
		Prompt:      req.Prompt,
		Provider:    info.Provider,
		Model:       info.Model,
		Status:      models.JobStatusPending,
		CreatedAt:   s.now(),
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info("generation started",
		"job_id", job.ID,
		"article_id", job.ArticleID,
		"provider", job.Provider,
		"model", job.Model,
		"prompt_length", len(job.Prompt),
	)

	resp, err := provider.GenerateResponse(ctx, &llmprovider.GenerateRequest{
		Messages: []llmprovider.Message{userMessage(fmt.Sprintf(instructions, article.Title, req.Prompt))},
		Model:    info.Model,
	})
	if err != nil {
		s.fail(ctx, job, err.Error())
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrUpstream, info.Provider, err)
	}

	job.InputTokens = resp.InputTokens
	job.OutputTokens = resp.OutputTokens
	job.StopReason = resp.StopReason
	job.Output = collectText(resp)
	if job.Output == "" {
		s.fail(ctx, job, "provider returned no text")
		return nil, fmt.Errorf("%w: %s returned no text", domain.ErrUpstream, info.Provider)
	}

	var updated *models.Article
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var block *blocks.Block
		var err error
		updated, block, err = s.articleService.AppendBlock(txCtx, req.ArticleID, req.Section, req.Column, blocks.BlockTypeText, job.Output)
		if err != nil {
			return err
		}

		completedAt := s.now()
		job.Status = models.JobStatusCompleted
		job.BlockID = block.ID
		job.CompletedAt = &completedAt
		return s.jobRepo.Finish(txCtx, job)
	})
	if err != nil {
		job.BlockID = ""
		s.fail(ctx, job, err.Error())
		return nil, err
	}

	s.logger.Info("generation completed",
		"job_id", job.ID,
		"article_id", job.ArticleID,
		"block_id", job.BlockID,
		"input_tokens", job.InputTokens,
		"output_tokens", job.OutputTokens,
		"stop_reason", job.StopReason,
	)

	return &services.GenerateResult{Job: job, Article: updated}, nil
}

// ListJobs returns an article's generation history
func (s *generationService) ListJobs(ctx context.Context, articleID string) ([]models.GenerationJob, error) {
	if _, err := s.articleService.GetArticle(ctx, articleID); err != nil {
		return nil, err
	}
	return s.jobRepo.ListByArticle(ctx, articleID)
}

// fail records a failed job. The original error is what the caller sees,
// so a failure to record is only logged.
func (s *generationService) fail(ctx context.Context, job *models.GenerationJob, reason string) {
	completedAt := s.now()
	job.Status = models.JobStatusFailed
	job.Error = reason
	job.CompletedAt = &completedAt

	if err := s.jobRepo.Finish(ctx, job); err != nil {
		s.logger.Error("failed to record failed generation job", "job_id", job.ID, "error", err)
	}
	s.logger.Warn("generation failed", "job_id", job.ID, "article_id", job.ArticleID, "reason", reason)
}

func (s *generationService) validateRequest(req *services.GenerateRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ArticleID, validation.Required),
		validation.Field(&req.RequestedBy, validation.Required),
		validation.Field(&req.Prompt,
			validation.Required,
			validation.Length(1, config.MaxPromptLength),
		),
		validation.Field(&req.Section, validation.Min(0)),
		validation.Field(&req.Column, validation.Min(0)),
	)
}

// checkTarget fails before the provider is called if the column is missing
func checkTarget(doc blocks.Document, section, column int) error {
	if section >= len(doc.Sections) {
		return fmt.Errorf("section %d of %d: %w", section, len(doc.Sections), domain.ErrIndexOutOfRange)
	}
	if cols := len(doc.Sections[section].Columns); column >= cols {
		return fmt.Errorf("column %d of %d: %w", column, cols, domain.ErrIndexOutOfRange)
	}
	return nil
}

func userMessage(text string) llmprovider.Message {
	return llmprovider.Message{
		Role: "user",
		Blocks: []*llmprovider.Block{{
			BlockType:   textBlockType,
			Sequence:    0,
			TextContent: &text,
		}},
	}
}

// collectText joins the text blocks of a response as markdown paragraphs
func collectText(resp *llmprovider.GenerateResponse) string {
	var parts []string
	for _, b := range resp.Blocks {
		if b.BlockType != textBlockType || b.TextContent == nil {
			continue
		}
		if t := strings.TrimSpace(*b.TextContent); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}
