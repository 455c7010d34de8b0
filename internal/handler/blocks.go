package handler

import (
	"log/slog"
	"net/http"
	"time"

	"quill/internal/domain/models/blocks"
	"quill/internal/domain/services"
	"quill/internal/httputil"
	editor "quill/internal/service/blocks"
)

// BlocksHandler compiles unsaved documents for the editor preview
type BlocksHandler struct {
	renderer        *editor.Renderer
	contentAnalyzer services.ContentAnalyzer
	logger          *slog.Logger
}

// NewBlocksHandler creates a new blocks handler
func NewBlocksHandler(contentAnalyzer services.ContentAnalyzer, logger *slog.Logger) *BlocksHandler {
	return &BlocksHandler{
		renderer:        editor.NewRenderer(),
		contentAnalyzer: contentAnalyzer,
		logger:          logger,
	}
}

type compileRequest struct {
	Sections []blocks.Section `json:"sections"`
}

// CompileResponse is the preview of a posted document. Issues are reported,
// not rejected, so a half-finished document still previews.
type CompileResponse struct {
	Content   string         `json:"content"`
	HTML      string         `json:"html"`
	WordCount int            `json:"word_count"`
	Issues    []editor.Issue `json:"issues"`
}

// Compile previews a document without saving it
// POST /api/blocks/compile
func (h *BlocksHandler) Compile(w http.ResponseWriter, r *http.Request) {
	var req compileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc := blocks.Document{Sections: req.Sections}
	content := editor.Compile(doc)
	issues := editor.Validate(doc)
	if issues == nil {
		issues = []editor.Issue{}
	}

	httputil.RespondJSON(w, http.StatusOK, CompileResponse{
		Content:   content,
		HTML:      h.renderer.Render(doc),
		WordCount: h.contentAnalyzer.CountWords(content),
		Issues:    issues,
	})
}

// HealthCheck is a simple health check endpoint
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now(),
	})
}
