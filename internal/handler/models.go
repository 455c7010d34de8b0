package handler

import (
	"log/slog"
	"net/http"

	"quill/internal/httputil"
	"quill/internal/service/generation"
)

// ModelsHandler lists the models offered for generation
type ModelsHandler struct {
	catalog   *generation.Catalog
	providers *generation.ProviderRegistry
	logger    *slog.Logger
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(catalog *generation.Catalog, providers *generation.ProviderRegistry, logger *slog.Logger) *ModelsHandler {
	return &ModelsHandler{
		catalog:   catalog,
		providers: providers,
		logger:    logger,
	}
}

// ListModels returns the model picker entries
// GET /api/models
func (h *ModelsHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"models": h.catalog.Models(h.providers),
	})
}
