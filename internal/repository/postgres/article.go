package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/domain/models/blocks"
	"quill/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresArticleRepository implements the ArticleRepository interface
type PostgresArticleRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(config *RepositoryConfig) repositories.ArticleRepository {
	return &PostgresArticleRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const articleColumns = `id, title, slug, summary, tags, status, author_id, cover_image_url,
	sections, content, word_count, created_at, updated_at, published_at`

const articleMetadataColumns = `id, title, slug, summary, tags, status, author_id, cover_image_url,
	word_count, created_at, updated_at, published_at`

// Create creates a new article
func (r *PostgresArticleRepository) Create(ctx context.Context, a *models.Article) error {
	sections, err := encodeSections(a.Sections)
	if err != nil {
		return err
	}

	if err := r.checkSlugFree(ctx, a.Slug, ""); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (title, slug, summary, tags, status, author_id, cover_image_url,
			sections, content, word_count, created_at, updated_at, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, r.tables.Articles)

	executor := GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query,
		a.Title,
		a.Slug,
		a.Summary,
		nonNilTags(a.Tags),
		a.Status,
		a.AuthorID,
		a.CoverImageURL,
		sections,
		a.Content,
		a.WordCount,
		a.CreatedAt,
		a.UpdatedAt,
		a.PublishedAt,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("slug %q already in use: %w", a.Slug, domain.ErrConflict)
		}
		return fmt.Errorf("create article: %w", err)
	}

	return nil
}

// GetByID retrieves an article by ID
func (r *PostgresArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, articleColumns, r.tables.Articles)

	a, err := scanArticle(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get article: %w", err)
	}
	return a, nil
}

// GetBySlug retrieves an article by slug
func (r *PostgresArticleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE slug = $1`, articleColumns, r.tables.Articles)

	a, err := scanArticle(GetExecutor(ctx, r.pool).QueryRow(ctx, query, slug))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("article %q: %w", slug, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get article by slug: %w", err)
	}
	return a, nil
}

// List returns article metadata matching filter, newest first
func (r *PostgresArticleRepository) List(ctx context.Context, filter models.ArticleFilter) ([]models.Article, int, error) {
	var conds []string
	var args []any
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		conds = append(conds, fmt.Sprintf("$%d = ANY(tags)", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	executor := GetExecutor(ctx, r.pool)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, r.tables.Articles, where)
	if err := executor.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT %s FROM %s %s
		ORDER BY COALESCE(published_at, created_at) DESC, id
		LIMIT $%d OFFSET $%d
	`, articleMetadataColumns, r.tables.Articles, where, len(args)-1, len(args))

	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	articles := make([]models.Article, 0)
	for rows.Next() {
		var a models.Article
		if err := rows.Scan(
			&a.ID,
			&a.Title,
			&a.Slug,
			&a.Summary,
			&a.Tags,
			&a.Status,
			&a.AuthorID,
			&a.CoverImageURL,
			&a.WordCount,
			&a.CreatedAt,
			&a.UpdatedAt,
			&a.PublishedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate articles: %w", err)
	}

	return articles, total, nil
}

// Update writes all mutable columns of an article
func (r *PostgresArticleRepository) Update(ctx context.Context, a *models.Article) error {
	sections, err := encodeSections(a.Sections)
	if err != nil {
		return err
	}

	// A unique violation aborts the transaction, so the owner lookup has to
	// happen before the write.
	if err := r.checkSlugFree(ctx, a.Slug, a.ID); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, slug = $2, summary = $3, tags = $4, status = $5, cover_image_url = $6,
			sections = $7, content = $8, word_count = $9, updated_at = $10, published_at = $11
		WHERE id = $12
	`, r.tables.Articles)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		a.Title,
		a.Slug,
		a.Summary,
		nonNilTags(a.Tags),
		a.Status,
		a.CoverImageURL,
		sections,
		a.Content,
		a.WordCount,
		a.UpdatedAt,
		a.PublishedAt,
		a.ID,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("slug %q already in use: %w", a.Slug, domain.ErrConflict)
		}
		return fmt.Errorf("update article: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("article %s: %w", a.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes an article; its jobs go with it (ON DELETE CASCADE)
func (r *PostgresArticleRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Articles)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// checkSlugFree returns a ConflictError pointing at the article that owns
// slug, unless that article is selfID.
func (r *PostgresArticleRepository) checkSlugFree(ctx context.Context, slug, selfID string) error {
	var existingID string
	query := fmt.Sprintf(`SELECT id::text FROM %s WHERE slug = $1`, r.tables.Articles)
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, slug).Scan(&existingID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("look up slug owner: %w", err)
	}
	if err := slugConflict(slug, existingID, selfID); err != nil {
		r.logger.Debug("slug taken", "slug", slug, "owner", existingID)
		return err
	}
	return nil
}

func slugConflict(slug, existingID, selfID string) error {
	if existingID == "" || existingID == selfID {
		return nil
	}
	return &domain.ConflictError{
		Message:      fmt.Sprintf("slug %q already in use", slug),
		ResourceType: "article",
		ResourceID:   existingID,
	}
}

func scanArticle(row pgx.Row) (*models.Article, error) {
	var a models.Article
	var sections []byte
	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Slug,
		&a.Summary,
		&a.Tags,
		&a.Status,
		&a.AuthorID,
		&a.CoverImageURL,
		&sections,
		&a.Content,
		&a.WordCount,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.PublishedAt,
	)
	if err != nil {
		return nil, err
	}

	if a.Sections, err = decodeSections(sections); err != nil {
		return nil, fmt.Errorf("article %s: %w", a.ID, err)
	}
	return &a, nil
}

// encodeSections serializes a document's sections for the JSONB column.
// The mapping is structural: the stored JSON mirrors the block model.
func encodeSections(sections []blocks.Section) ([]byte, error) {
	if sections == nil {
		sections = []blocks.Section{}
	}
	data, err := json.Marshal(sections)
	if err != nil {
		return nil, fmt.Errorf("encode sections: %w", err)
	}
	return data, nil
}

func decodeSections(data []byte) ([]blocks.Section, error) {
	sections := []blocks.Section{}
	if len(data) == 0 {
		return sections, nil
	}
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}
	return sections, nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
