package services

import (
	"context"

	"quill/internal/domain/models"
	"quill/internal/domain/models/blocks"
	editor "quill/internal/service/blocks"
)

// ArticleService handles article business logic. Every write re-derives the
// compiled content and word count from the block document.
type ArticleService interface {
	// CreateArticle creates a draft; an empty slug is derived from the title
	CreateArticle(ctx context.Context, req *CreateArticleRequest) (*models.Article, error)

	// GetArticle retrieves any article (editor view)
	GetArticle(ctx context.Context, id string) (*models.Article, error)

	// GetPublishedBySlug retrieves a published article; drafts are not found
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Article, error)

	// ListArticles returns a page of article metadata
	ListArticles(ctx context.Context, filter models.ArticleFilter) (*models.ArticlePage, error)

	// UpdateArticle patches metadata and/or replaces the whole document
	UpdateArticle(ctx context.Context, id string, req *UpdateArticleRequest) (*models.Article, error)

	// ApplyOperations runs a batch of editor operations atomically and saves
	ApplyOperations(ctx context.Context, id string, ops []editor.Operation) (*models.Article, error)

	// AppendBlock adds a block with content to the end of a column and
	// saves. Joins a transaction present in ctx.
	AppendBlock(ctx context.Context, id string, section, column int, blockType blocks.BlockType, content string) (*models.Article, *blocks.Block, error)

	// Publish validates the document and makes the article public
	Publish(ctx context.Context, id string) (*models.Article, error)

	// Unpublish returns the article to draft and removes it from search
	Unpublish(ctx context.Context, id string) (*models.Article, error)

	// DeleteArticle removes an article and its search entry
	DeleteArticle(ctx context.Context, id string) error

	// RenderArticle returns a published article with its HTML body
	RenderArticle(ctx context.Context, slug string) (*models.RenderedArticle, error)

	// Search queries published articles
	Search(ctx context.Context, query string, limit int) (*models.SearchResults, error)
}

// CreateArticleRequest represents an article creation request
type CreateArticleRequest struct {
	AuthorID      string           `json:"-"` // Set by handler from auth context
	Title         string           `json:"title"`
	Slug          string           `json:"slug,omitempty"`
	Summary       string           `json:"summary,omitempty"`
	Tags          []string         `json:"tags,omitempty"`
	CoverImageURL string           `json:"cover_image_url,omitempty"`
	Sections      []blocks.Section `json:"sections,omitempty"` // Optional initial document
}

// UpdateArticleRequest represents a partial article update.
// Content and WordCount are not accepted; they are always recompiled.
type UpdateArticleRequest struct {
	Title         *string
	Slug          *string
	Summary       models.OptionalText
	CoverImageURL models.OptionalText
	Tags          *[]string
	Sections      *[]blocks.Section // Full document replacement
}

// SearchIndex indexes published articles for full-text search
type SearchIndex interface {
	// Index adds or replaces an article's entry
	Index(ctx context.Context, article *models.Article) error

	// Remove deletes an article's entry; removing a missing entry is not an error
	Remove(ctx context.Context, articleID string) error

	// Search runs a query string against title, summary, tags and body
	Search(ctx context.Context, query string, limit int) (*models.SearchResults, error)

	// Close releases the index
	Close() error
}

// ContentAnalyzer handles content analysis operations
type ContentAnalyzer interface {
	// CountWords counts words in markdown content
	CountWords(markdown string) int

	// CleanMarkdown removes markdown syntax from content
	CleanMarkdown(markdown string) string
}
