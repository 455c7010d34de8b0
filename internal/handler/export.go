package handler

import (
	"log/slog"
	"net/http"

	"quill/internal/domain/services"
	"quill/internal/httputil"
)

// ExportHandler serves articles as markdown downloads
type ExportHandler struct {
	exportService services.ExportService
	logger        *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportService services.ExportService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		logger:        logger,
	}
}

// Export downloads an article with front matter
// GET /api/articles/{id}/export?format=yaml|toml
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	filename, body, err := h.exportService.Export(r.Context(), id, r.URL.Query().Get("format"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondFile(w, filename, "text/markdown; charset=utf-8", body)
}
