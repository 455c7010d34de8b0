package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"quill/internal/domain"
	"quill/internal/domain/services"
	"quill/internal/frontmatter"
	editor "quill/internal/service/blocks"
)

// frontMatter is the exported metadata, in Hugo's field conventions.
// Field order here is the order in the file.
type frontMatter struct {
	Title      string    `yaml:"title" toml:"title"`
	Slug       string    `yaml:"slug" toml:"slug"`
	Date       time.Time `yaml:"date" toml:"date"`
	Lastmod    time.Time `yaml:"lastmod" toml:"lastmod"`
	Draft      bool      `yaml:"draft" toml:"draft"`
	Status     string    `yaml:"status" toml:"status"`
	Summary    string    `yaml:"summary,omitempty" toml:"summary,omitempty"`
	Tags       []string  `yaml:"tags" toml:"tags"`
	CoverImage string    `yaml:"cover_image,omitempty" toml:"cover_image,omitempty"`
	WordCount  int       `yaml:"word_count" toml:"word_count"`
}

// exportService implements the ExportService interface
type exportService struct {
	articleService services.ArticleService
	logger         *slog.Logger
}

// NewExportService creates a new export service
func NewExportService(articleService services.ArticleService, logger *slog.Logger) services.ExportService {
	return &exportService{
		articleService: articleService,
		logger:         logger,
	}
}

// Export writes the article as <slug>.md: front matter, then the compiled
// markdown body. Layout is not represented in the file.
func (s *exportService) Export(ctx context.Context, articleID, format string) (string, []byte, error) {
	if format == "" {
		format = string(frontmatter.YAML)
	}
	f, err := frontmatter.ParseFormat(format)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	article, err := s.articleService.GetArticle(ctx, articleID)
	if err != nil {
		return "", nil, err
	}

	date := article.CreatedAt
	if article.PublishedAt != nil {
		date = *article.PublishedAt
	}
	tags := article.Tags
	if tags == nil {
		tags = []string{}
	}

	meta := frontMatter{
		Title:      article.Title,
		Slug:       article.Slug,
		Date:       date.UTC(),
		Lastmod:    article.UpdatedAt.UTC(),
		Draft:      !article.IsPublished(),
		Status:     string(article.Status),
		Summary:    article.Summary,
		Tags:       tags,
		CoverImage: article.CoverImageURL,
		WordCount:  article.WordCount,
	}

	body, err := frontmatter.Compose(meta, editor.Compile(article.Document()), f)
	if err != nil {
		return "", nil, err
	}

	s.logger.Debug("article exported", "id", article.ID, "format", f, "bytes", len(body))
	return article.Slug + ".md", body, nil
}
