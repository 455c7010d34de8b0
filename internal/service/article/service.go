package article

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"quill/internal/config"
	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/domain/models/blocks"
	"quill/internal/domain/repositories"
	"quill/internal/domain/services"
	editor "quill/internal/service/blocks"
)

// articleService implements the ArticleService interface
type articleService struct {
	articleRepo     repositories.ArticleRepository
	txManager       repositories.TransactionManager
	contentAnalyzer services.ContentAnalyzer
	index           services.SearchIndex
	renderer        *editor.Renderer
	logger          *slog.Logger
	now             func() time.Time
}

// NewArticleService creates a new article service
func NewArticleService(
	articleRepo repositories.ArticleRepository,
	txManager repositories.TransactionManager,
	contentAnalyzer services.ContentAnalyzer,
	index services.SearchIndex,
	logger *slog.Logger,
) services.ArticleService {
	return &articleService{
		articleRepo:     articleRepo,
		txManager:       txManager,
		contentAnalyzer: contentAnalyzer,
		index:           index,
		renderer:        editor.NewRenderer(),
		logger:          logger,
		now:             time.Now,
	}
}

// CreateArticle creates a draft article
func (s *articleService) CreateArticle(ctx context.Context, req *services.CreateArticleRequest) (*models.Article, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Slug = strings.TrimSpace(req.Slug)
	req.Tags = normalizeTags(req.Tags)

	if err := validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Title)
		if slug == "" {
			return nil, fmt.Errorf("%w: slug: cannot derive a slug from title %q", domain.ErrValidation, req.Title)
		}
	}

	sections := req.Sections
	if sections == nil {
		sections = []blocks.Section{}
	}
	if err := checkDocument(blocks.Document{Sections: sections}); err != nil {
		return nil, err
	}

	now := s.now()
	article := &models.Article{
		Title:         req.Title,
		Slug:          slug,
		Summary:       strings.TrimSpace(req.Summary),
		Tags:          req.Tags,
		Status:        models.ArticleStatusDraft,
		AuthorID:      req.AuthorID,
		CoverImageURL: req.CoverImageURL,
		Sections:      sections,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.derive(article)

	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, err
	}

	s.logger.Info("article created",
		"id", article.ID,
		"slug", article.Slug,
		"author_id", article.AuthorID,
		"sections", len(article.Sections),
		"word_count", article.WordCount,
	)

	return article, nil
}

// GetArticle retrieves an article in any state
func (s *articleService) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	return s.articleRepo.GetByID(ctx, id)
}

// GetPublishedBySlug retrieves a published article. Drafts are reported as
// not found so the public site cannot probe for them.
func (s *articleService) GetPublishedBySlug(ctx context.Context, slug string) (*models.Article, error) {
	article, err := s.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !article.IsPublished() {
		return nil, fmt.Errorf("article %q: %w", slug, domain.ErrNotFound)
	}
	return article, nil
}

// ListArticles returns a page of article metadata
func (s *articleService) ListArticles(ctx context.Context, filter models.ArticleFilter) (*models.ArticlePage, error) {
	if filter.Status != "" && filter.Status != models.ArticleStatusDraft && filter.Status != models.ArticleStatusPublished {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, filter.Status)
	}
	filter.Tag = strings.ToLower(strings.TrimSpace(filter.Tag))
	filter.Limit = clampLimit(filter.Limit)
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	items, total, err := s.articleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &models.ArticlePage{
		Items:  items,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

// UpdateArticle patches metadata and optionally replaces the document
func (s *articleService) UpdateArticle(ctx context.Context, id string, req *services.UpdateArticleRequest) (*models.Article, error) {
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		req.Title = &trimmed
	}
	if req.Slug != nil {
		trimmed := strings.TrimSpace(*req.Slug)
		req.Slug = &trimmed
	}
	if req.Tags != nil {
		tags := normalizeTags(*req.Tags)
		req.Tags = &tags
	}

	if err := validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if req.Sections != nil {
		if err := checkDocument(blocks.Document{Sections: *req.Sections}); err != nil {
			return nil, err
		}
	}

	var article *models.Article
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		article, err = s.articleRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if req.Title != nil {
			article.Title = *req.Title
		}
		if req.Slug != nil {
			article.Slug = *req.Slug
		}
		if req.Tags != nil {
			article.Tags = *req.Tags
		}
		article.Summary = strings.TrimSpace(req.Summary.Resolve(article.Summary))
		article.CoverImageURL = req.CoverImageURL.Resolve(article.CoverImageURL)
		if req.Sections != nil {
			article.Sections = *req.Sections
		}

		if article.IsPublished() && !s.publishable(article) {
			return &domain.InvalidDocumentError{Issues: []string{"a published article cannot be emptied; unpublish it first"}}
		}

		return s.save(txCtx, article)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("article updated",
		"id", article.ID,
		"slug", article.Slug,
		"document_replaced", req.Sections != nil,
	)

	return article, nil
}

// ApplyOperations loads the document, applies the batch and saves it
func (s *articleService) ApplyOperations(ctx context.Context, id string, ops []editor.Operation) (*models.Article, error) {
	if len(ops) == 0 {
		return nil, fmt.Errorf("%w: no operations", domain.ErrValidation)
	}
	if len(ops) > config.MaxOperationsPerBatch {
		return nil, fmt.Errorf("%w: %d operations, max %d", domain.ErrValidation, len(ops), config.MaxOperationsPerBatch)
	}

	var article *models.Article
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		article, err = s.articleRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		doc, err := editor.ApplyAll(article.Document(), ops)
		if err != nil {
			return err
		}
		if err := checkDocumentSize(doc); err != nil {
			return err
		}
		article.Sections = doc.Sections

		if article.IsPublished() && !s.publishable(article) {
			return &domain.InvalidDocumentError{Issues: []string{"a published article cannot be emptied; unpublish it first"}}
		}

		return s.save(txCtx, article)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("operations applied",
		"id", article.ID,
		"count", len(ops),
		"word_count", article.WordCount,
	)

	return article, nil
}

// AppendBlock adds a block to the end of a column and saves
func (s *articleService) AppendBlock(ctx context.Context, id string, section, column int, blockType blocks.BlockType, content string) (*models.Article, *blocks.Block, error) {
	var article *models.Article
	var block blocks.Block

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		article, err = s.articleRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		doc, err := editor.InsertBlockWithContent(article.Document(), section, column, blockType, content)
		if err != nil {
			return err
		}
		if err := checkDocumentSize(doc); err != nil {
			return err
		}
		block, _ = doc.Block(section, column, len(doc.Sections[section].Columns[column].Blocks)-1)
		article.Sections = doc.Sections

		return s.save(txCtx, article)
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Debug("block appended",
		"id", article.ID,
		"block_id", block.ID,
		"type", block.Type,
		"section", section,
		"column", column,
	)

	return article, &block, nil
}

// Publish makes an article public. The document must be structurally sound
// and compile to something.
func (s *articleService) Publish(ctx context.Context, id string) (*models.Article, error) {
	var article *models.Article
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		article, err = s.articleRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if err := checkDocument(article.Document()); err != nil {
			return err
		}
		if article.Document().Empty() {
			return &domain.InvalidDocumentError{Issues: []string{"document has no blocks"}}
		}
		if !s.publishable(article) {
			return &domain.InvalidDocumentError{Issues: []string{"document has no content"}}
		}

		article.Status = models.ArticleStatusPublished
		if article.PublishedAt == nil {
			now := s.now()
			article.PublishedAt = &now
		}

		return s.save(txCtx, article)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("article published",
		"id", article.ID,
		"slug", article.Slug,
		"published_at", article.PublishedAt,
	)

	return article, nil
}

// Unpublish returns an article to draft. PublishedAt is kept so a later
// republish keeps its original date.
func (s *articleService) Unpublish(ctx context.Context, id string) (*models.Article, error) {
	var article *models.Article
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		article, err = s.articleRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		article.Status = models.ArticleStatusDraft
		return s.save(txCtx, article)
	})
	if err != nil {
		return nil, err
	}

	s.unindex(ctx, article.ID)
	s.logger.Info("article unpublished", "id", article.ID, "slug", article.Slug)

	return article, nil
}

// DeleteArticle removes an article
func (s *articleService) DeleteArticle(ctx context.Context, id string) error {
	if err := s.articleRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.unindex(ctx, id)
	s.logger.Info("article deleted", "id", id)

	return nil
}

// RenderArticle returns a published article with its HTML body
func (s *articleService) RenderArticle(ctx context.Context, slug string) (*models.RenderedArticle, error) {
	article, err := s.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	return &models.RenderedArticle{
		Article: *article,
		HTML:    s.renderer.Render(article.Document()),
	}, nil
}

// Search queries the published-article index
func (s *articleService) Search(ctx context.Context, query string, limit int) (*models.SearchResults, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrValidation)
	}
	return s.index.Search(ctx, query, clampLimit(limit))
}

// derive recomputes the fields compiled from the document
func (s *articleService) derive(article *models.Article) {
	article.Content = editor.Compile(article.Document())
	article.WordCount = s.contentAnalyzer.CountWords(article.Content)
}

// save derives and persists the article. Published articles are indexed
// once the surrounding transaction commits, so a rollback never leaves
// uncommitted text searchable. Index failures are logged; the database
// stays the source of truth and a reindex can repair the index.
func (s *articleService) save(ctx context.Context, article *models.Article) error {
	s.derive(article)
	article.UpdatedAt = s.now()
	if err := s.articleRepo.Update(ctx, article); err != nil {
		return err
	}

	if article.IsPublished() {
		saved := *article
		repositories.AfterCommit(ctx, func(ctx context.Context) {
			if err := s.index.Index(ctx, &saved); err != nil {
				s.logger.Warn("failed to index article", "id", saved.ID, "error", err)
			}
		})
	}
	return nil
}

func (s *articleService) unindex(ctx context.Context, id string) {
	if err := s.index.Remove(ctx, id); err != nil {
		s.logger.Warn("failed to remove article from index", "id", id, "error", err)
	}
}

// publishable reports whether the document compiles to visible content
func (s *articleService) publishable(article *models.Article) bool {
	return strings.TrimSpace(editor.Compile(article.Document())) != ""
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return config.DefaultPageSize
	case limit > config.MaxPageSize:
		return config.MaxPageSize
	default:
		return limit
	}
}
