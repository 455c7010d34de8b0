package services

import (
	"context"
	"io"

	"quill/internal/domain/models"
)

// ImportService turns an uploaded file into a text block
type ImportService interface {
	// Import converts the file by extension and appends the markdown as a
	// text block to the target column
	Import(ctx context.Context, req *ImportRequest) (*models.Article, error)
}

// ImportRequest is one uploaded file bound for an article column
type ImportRequest struct {
	ArticleID string
	Section   int
	Column    int
	Filename  string
	Content   io.Reader
}

// ContentConverter converts file content to markdown
type ContentConverter interface {
	// Convert converts raw file bytes to markdown
	Convert(ctx context.Context, input []byte) (string, error)

	// SupportedExtensions returns file extensions this converter handles (with dot)
	SupportedExtensions() []string

	// Name identifies the converter in logs
	Name() string
}

// ExportService renders an article as a markdown file with front matter
type ExportService interface {
	// Export returns the file name and body for the given front matter
	// format ("yaml" or "toml")
	Export(ctx context.Context, articleID, format string) (filename string, body []byte, err error)
}
