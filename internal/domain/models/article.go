package models

import (
	"time"

	"quill/internal/domain/models/blocks"
)

type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
)

// Article is the stored record a block document lives in.
// Sections is the source of truth; Content and WordCount are derived from
// it on every save and never accepted from clients.
type Article struct {
	ID            string           `json:"id" db:"id"`
	Title         string           `json:"title" db:"title"`
	Slug          string           `json:"slug" db:"slug"`
	Summary       string           `json:"summary" db:"summary"`
	Tags          []string         `json:"tags" db:"tags"`
	Status        ArticleStatus    `json:"status" db:"status"`
	AuthorID      string           `json:"author_id" db:"author_id"`
	CoverImageURL string           `json:"cover_image_url,omitempty" db:"cover_image_url"`
	Sections      []blocks.Section `json:"sections" db:"sections"` // JSONB
	Content       string           `json:"content" db:"content"`   // Compiled markdown, legacy render path
	WordCount     int              `json:"word_count" db:"word_count"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
	PublishedAt   *time.Time       `json:"published_at,omitempty" db:"published_at"`
}

// Document returns the article body as a block document.
func (a *Article) Document() blocks.Document {
	return blocks.Document{Sections: a.Sections}
}

// IsPublished reports whether the article is visible on the public site.
func (a *Article) IsPublished() bool {
	return a.Status == ArticleStatusPublished
}

// ArticleFilter narrows article listings. Zero values mean "any".
type ArticleFilter struct {
	Status ArticleStatus
	Tag    string
	Limit  int
	Offset int
}

// ArticlePage is one page of a listing. Items carry metadata only, their
// Sections are nil.
type ArticlePage struct {
	Items  []Article `json:"items"`
	Total  int       `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}

// RenderedArticle is a published article with its HTML body.
type RenderedArticle struct {
	Article
	HTML string `json:"html"`
}

// OptionalText carries tri-state PATCH semantics (RFC 7396) for a text
// field: absent keeps it, null clears it, a value replaces it.
// Transport-agnostic; handlers convert from httputil.OptionalString.
type OptionalText struct {
	Present bool
	Value   *string
}

// Resolve applies the patch to current.
func (o OptionalText) Resolve(current string) string {
	if !o.Present {
		return current
	}
	if o.Value == nil {
		return ""
	}
	return *o.Value
}
