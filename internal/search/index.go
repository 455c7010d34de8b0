package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/domain/repositories"
	"quill/internal/domain/services"
)

// Index wraps a Bleve index of published articles
type Index struct {
	index  bleve.Index
	logger *slog.Logger
}

// indexedArticle is the document stored in Bleve. Content is the compiled
// markdown, so layout never affects matching.
type indexedArticle struct {
	Title       string
	Slug        string
	Summary     string
	Tags        []string
	Content     string
	PublishedAt time.Time
}

var _ services.SearchIndex = (*Index)(nil)

// Open opens the index at path, creating it if needed. An empty path keeps
// the index in memory; it is then rebuilt from the database on startup.
func Open(path string, logger *slog.Logger) (*Index, error) {
	if path == "" {
		idx, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create in-memory index: %w", err)
		}
		return &Index{index: idx, logger: logger}, nil
	}

	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		logger.Info("search index created", "path", path)
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	return &Index{index: idx, logger: logger}, nil
}

// buildIndexMapping analyzes titles with the English analyzer for stemming
// and keeps tags and slugs as exact terms.
func buildIndexMapping() mapping.IndexMapping {
	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = "en"

	keywordFieldMapping := bleve.NewTextFieldMapping()
	keywordFieldMapping.Analyzer = "keyword"

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("Title", titleFieldMapping)
	docMapping.AddFieldMappingsAt("Slug", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("Summary", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Tags", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("Content", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("PublishedAt", bleve.NewDateTimeFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping

	return indexMapping
}

// Index adds or replaces a published article
func (i *Index) Index(_ context.Context, article *models.Article) error {
	if err := i.index.Index(article.ID, toIndexed(article)); err != nil {
		return fmt.Errorf("index article %s: %w", article.ID, err)
	}
	return nil
}

// Remove deletes an article; unknown ids are ignored
func (i *Index) Remove(_ context.Context, articleID string) error {
	if err := i.index.Delete(articleID); err != nil {
		return fmt.Errorf("remove article %s: %w", articleID, err)
	}
	return nil
}

// Search runs a Bleve query string (quotes, +/-, field:term, fuzzy ~)
func (i *Index) Search(_ context.Context, queryStr string, limit int) (*models.SearchResults, error) {
	query := bleve.NewQueryStringQuery(queryStr)
	if _, err := query.Parse(); err != nil {
		return nil, fmt.Errorf("%w: query: %v", domain.ErrValidation, err)
	}

	req := bleve.NewSearchRequestOptions(query, limit, 0, false)
	req.Highlight = bleve.NewHighlightWithStyle("html")
	req.Highlight.AddField("Content")
	req.Highlight.AddField("Summary")
	req.Fields = []string{"Title", "Slug"}

	result, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	out := &models.SearchResults{
		Query: queryStr,
		Total: result.Total,
		Hits:  make([]models.SearchHit, 0, len(result.Hits)),
	}
	for _, hit := range result.Hits {
		h := models.SearchHit{
			ArticleID: hit.ID,
			Score:     hit.Score,
		}
		for _, field := range []string{"Summary", "Content"} {
			h.Fragments = append(h.Fragments, hit.Fragments[field]...)
		}
		if title, ok := hit.Fields["Title"].(string); ok {
			h.Title = title
		}
		if slug, ok := hit.Fields["Slug"].(string); ok {
			h.Slug = slug
		}
		out.Hits = append(out.Hits, h)
	}

	return out, nil
}

// Rebuild indexes every published article from the repository in one batch
func (i *Index) Rebuild(ctx context.Context, repo repositories.ArticleRepository) (int, error) {
	batch := i.index.NewBatch()
	count := 0
	filter := models.ArticleFilter{Status: models.ArticleStatusPublished, Limit: 100}

	for {
		page, total, err := repo.List(ctx, filter)
		if err != nil {
			return 0, fmt.Errorf("list published articles: %w", err)
		}
		for _, meta := range page {
			article, err := repo.GetByID(ctx, meta.ID)
			if err != nil {
				return 0, fmt.Errorf("load article %s: %w", meta.ID, err)
			}
			if err := batch.Index(article.ID, toIndexed(article)); err != nil {
				return 0, fmt.Errorf("batch index %s: %w", article.ID, err)
			}
			count++
		}
		filter.Offset += len(page)
		if len(page) == 0 || filter.Offset >= total {
			break
		}
	}

	if err := i.index.Batch(batch); err != nil {
		return 0, fmt.Errorf("commit batch: %w", err)
	}

	i.logger.Info("search index rebuilt", "articles", count)
	return count, nil
}

// Count returns the number of indexed articles
func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}

// Close closes the index
func (i *Index) Close() error {
	return i.index.Close()
}

func toIndexed(a *models.Article) *indexedArticle {
	doc := &indexedArticle{
		Title:   a.Title,
		Slug:    a.Slug,
		Summary: a.Summary,
		Tags:    a.Tags,
		Content: a.Content,
	}
	if a.PublishedAt != nil {
		doc.PublishedAt = *a.PublishedAt
	}
	return doc
}
