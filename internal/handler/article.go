package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"quill/internal/domain/models"
	"quill/internal/domain/models/blocks"
	"quill/internal/domain/services"
	"quill/internal/httputil"
	editor "quill/internal/service/blocks"
)

// ArticleHandler serves the admin editor API
type ArticleHandler struct {
	articleService services.ArticleService
	logger         *slog.Logger
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(articleService services.ArticleService, logger *slog.Logger) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
		logger:         logger,
	}
}

// updateArticleRequest is the PATCH body. summary and cover_image_url
// distinguish absent from null.
type updateArticleRequest struct {
	Title         *string                 `json:"title"`
	Slug          *string                 `json:"slug"`
	Summary       httputil.OptionalString `json:"summary"`
	CoverImageURL httputil.OptionalString `json:"cover_image_url"`
	Tags          *[]string               `json:"tags"`
	Sections      *[]blocks.Section       `json:"sections"`
}

type operationsRequest struct {
	Operations []editor.Operation `json:"operations"`
}

// ListArticles lists drafts and published articles
// GET /api/articles?status=&tag=&limit=&offset=
func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.articleService.ListArticles(r.Context(), models.ArticleFilter{
		Status: models.ArticleStatus(q.Get("status")),
		Tag:    q.Get("tag"),
		Limit:  httputil.QueryInt(r, "limit", 0),
		Offset: httputil.QueryInt(r, "offset", 0),
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// CreateArticle creates a draft
// POST /api/articles
// Returns 201 if created, 409 with the existing article if the slug is taken
func (h *ArticleHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var req services.CreateArticleRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.AuthorID = httputil.GetUserID(r)

	article, err := h.articleService.CreateArticle(r.Context(), &req)
	if err != nil {
		HandleCreateConflict(w, err, func(id string) (*models.Article, error) {
			return h.articleService.GetArticle(r.Context(), id)
		})
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, article)
}

// GetArticle returns an article with its block document
// GET /api/articles/{id}
func (h *ArticleHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	article, err := h.articleService.GetArticle(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, article)
}

// UpdateArticle patches metadata or replaces the document
// PATCH /api/articles/{id}
func (h *ArticleHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateArticleRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	article, err := h.articleService.UpdateArticle(r.Context(), id, &services.UpdateArticleRequest{
		Title:         req.Title,
		Slug:          req.Slug,
		Summary:       models.OptionalText(req.Summary),
		CoverImageURL: models.OptionalText(req.CoverImageURL),
		Tags:          req.Tags,
		Sections:      req.Sections,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, article)
}

// DeleteArticle deletes an article
// DELETE /api/articles/{id}
func (h *ArticleHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.articleService.DeleteArticle(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ApplyOperations runs a batch of editor operations. The body is either
// {"operations":[...]} or a bare array.
// POST /api/articles/{id}/operations
func (h *ArticleHandler) ApplyOperations(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var raw json.RawMessage
	if err := httputil.ParseJSON(w, r, &raw); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ops, err := decodeOperations(raw)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid operations: "+err.Error())
		return
	}

	article, err := h.articleService.ApplyOperations(r.Context(), id, ops)
	if err != nil {
		h.logger.Debug("operations rejected", "article_id", id, "count", len(ops), "error", err)
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, article)
}

// PublishArticle makes an article public
// POST /api/articles/{id}/publish
func (h *ArticleHandler) PublishArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	article, err := h.articleService.Publish(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, article)
}

// UnpublishArticle returns an article to draft
// POST /api/articles/{id}/unpublish
func (h *ArticleHandler) UnpublishArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	article, err := h.articleService.Unpublish(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, article)
}

func decodeOperations(raw json.RawMessage) ([]editor.Operation, error) {
	var ops []editor.Operation
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &ops); err != nil {
			return nil, err
		}
		return ops, nil
	}

	var req operationsRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	return req.Operations, nil
}
