package handler

import (
	"log/slog"
	"net/http"

	"quill/internal/domain/services"
	"quill/internal/httputil"
)

// GenerationHandler handles AI drafting requests
type GenerationHandler struct {
	generationService services.GenerationService
	logger            *slog.Logger
}

// NewGenerationHandler creates a new generation handler
func NewGenerationHandler(generationService services.GenerationService, logger *slog.Logger) *GenerationHandler {
	return &GenerationHandler{
		generationService: generationService,
		logger:            logger,
	}
}

// Generate drafts text into a new block
// POST /api/articles/{id}/generate
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req services.GenerateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.ArticleID = id
	req.RequestedBy = httputil.GetUserID(r)

	result, err := h.generationService.Generate(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, result)
}

// ListJobs returns an article's generation history
// GET /api/articles/{id}/jobs
func (h *GenerationHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	jobs, err := h.generationService.ListJobs(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, jobs)
}
