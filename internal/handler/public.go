package handler

import (
	"log/slog"
	"net/http"

	"quill/internal/domain/models"
	"quill/internal/domain/services"
	"quill/internal/httputil"
)

// PublicHandler serves the reader-facing site API. Drafts never leave it.
type PublicHandler struct {
	articleService services.ArticleService
	logger         *slog.Logger
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(articleService services.ArticleService, logger *slog.Logger) *PublicHandler {
	return &PublicHandler{
		articleService: articleService,
		logger:         logger,
	}
}

// ListPublished lists published article metadata
// GET /api/public/articles?tag=&limit=&offset=
func (h *PublicHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	page, err := h.articleService.ListArticles(r.Context(), models.ArticleFilter{
		Status: models.ArticleStatusPublished,
		Tag:    r.URL.Query().Get("tag"),
		Limit:  httputil.QueryInt(r, "limit", 0),
		Offset: httputil.QueryInt(r, "offset", 0),
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// GetArticle returns a published article rendered to HTML
// GET /api/public/articles/{slug}
func (h *PublicHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	slug, ok := pathID(w, r, "slug")
	if !ok {
		return
	}

	rendered, err := h.articleService.RenderArticle(r.Context(), slug)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, rendered)
}

// Search runs a full-text query over published articles
// GET /api/public/search?q=&limit=
func (h *PublicHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	results, err := h.articleService.Search(r.Context(), query, httputil.QueryInt(r, "limit", 0))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, results)
}
