package article

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/domain/repositories"
	"quill/internal/domain/services"
)

type memArticleRepo struct {
	mu       sync.Mutex
	articles map[string]models.Article
	nextID   int
}

func newMemArticleRepo() *memArticleRepo {
	return &memArticleRepo{articles: make(map[string]models.Article)}
}

func (r *memArticleRepo) Create(_ context.Context, a *models.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.articles {
		if existing.Slug == a.Slug {
			return &domain.ConflictError{Message: "slug taken", ResourceType: "article", ResourceID: existing.ID}
		}
	}
	r.nextID++
	a.ID = "a" + strconv.Itoa(r.nextID)
	r.articles[a.ID] = *a
	return nil
}

func (r *memArticleRepo) GetByID(_ context.Context, id string) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.articles[id]
	if !ok {
		return nil, fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	return &a, nil
}

func (r *memArticleRepo) GetBySlug(_ context.Context, slug string) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.articles {
		if a.Slug == slug {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("article %q: %w", slug, domain.ErrNotFound)
}

func (r *memArticleRepo) List(_ context.Context, filter models.ArticleFilter) ([]models.Article, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Article
	for _, a := range r.articles {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		a.Sections = nil
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := len(out)
	if filter.Offset < len(out) {
		out = out[filter.Offset:]
	} else {
		out = nil
	}
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

func (r *memArticleRepo) Update(_ context.Context, a *models.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.articles[a.ID]; !ok {
		return fmt.Errorf("article %s: %w", a.ID, domain.ErrNotFound)
	}
	for id, existing := range r.articles {
		if id != a.ID && existing.Slug == a.Slug {
			return &domain.ConflictError{Message: "slug taken", ResourceType: "article", ResourceID: id}
		}
	}
	r.articles[a.ID] = *a
	return nil
}

func (r *memArticleRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.articles[id]; !ok {
		return fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	delete(r.articles, id)
	return nil
}

// snapshotTx restores the repository when fn fails, like a rollback.
// Commit hooks run only when the outermost fn succeeds; nested calls join.
type snapshotTx struct {
	repo *memArticleRepo
}

func (m snapshotTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if repositories.CommitHooksFrom(ctx) != nil {
		return fn(ctx)
	}

	m.repo.mu.Lock()
	saved := make(map[string]models.Article, len(m.repo.articles))
	for k, v := range m.repo.articles {
		saved[k] = v
	}
	m.repo.mu.Unlock()

	txCtx, hooks := repositories.WithCommitHooks(ctx)
	if err := fn(txCtx); err != nil {
		m.repo.mu.Lock()
		m.repo.articles = saved
		m.repo.mu.Unlock()
		return err
	}
	hooks.Run(ctx)
	return nil
}

type memIndex struct {
	mu      sync.Mutex
	entries map[string]models.Article
	failing bool
}

func newMemIndex() *memIndex {
	return &memIndex{entries: make(map[string]models.Article)}
}

func (i *memIndex) Index(_ context.Context, a *models.Article) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.failing {
		return fmt.Errorf("index unavailable")
	}
	i.entries[a.ID] = *a
	return nil
}

func (i *memIndex) Remove(_ context.Context, id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.entries, id)
	return nil
}

func (i *memIndex) Search(_ context.Context, query string, limit int) (*models.SearchResults, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	res := &models.SearchResults{Query: query}
	for _, a := range i.entries {
		res.Hits = append(res.Hits, models.SearchHit{ArticleID: a.ID, Slug: a.Slug, Title: a.Title})
	}
	res.Total = uint64(len(res.Hits))
	return res, nil
}

func (i *memIndex) Close() error { return nil }

func (i *memIndex) has(id string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	_, ok := i.entries[id]
	return ok
}

type fixture struct {
	svc   services.ArticleService
	repo  *memArticleRepo
	index *memIndex
	tx    snapshotTx
}

var fixedNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newMemArticleRepo()
	index := newMemIndex()
	tx := snapshotTx{repo: repo}
	svc := NewArticleService(repo, tx, NewContentAnalyzer(), index,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.(*articleService).now = func() time.Time { return fixedNow }
	return &fixture{svc: svc, repo: repo, index: index, tx: tx}
}
