package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"quill/internal/config"
	"quill/internal/domain/services"
	"quill/internal/httputil"
)

// ImportHandler handles file uploads into an article
type ImportHandler struct {
	importService services.ImportService
	logger        *slog.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(importService services.ImportService, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		logger:        logger,
	}
}

// Import converts one uploaded file into a text block.
// POST /api/articles/{id}/import
//
// Multipart fields:
//   - file: required (.md, .markdown, .txt, .html, .htm)
//   - section, column: optional target, default 0
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxImportFileSize+(1<<20))
	if err := r.ParseMultipartForm(config.MaxImportFileSize); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	section, err := formIndex(r, "section")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	column, err := formIndex(r, "column")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer func() { _ = file.Close() }()

	h.logger.Info("starting import",
		"article_id", id,
		"file", header.Filename,
		"size", header.Size,
	)

	article, err := h.importService.Import(r.Context(), &services.ImportRequest{
		ArticleID: id,
		Section:   section,
		Column:    column,
		Filename:  header.Filename,
		Content:   file,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, article)
}

func formIndex(r *http.Request, key string) (int, error) {
	raw := r.FormValue(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}
