package converter

import (
	"context"
	"strings"

	"quill/internal/domain/services"
)

// textConverter imports plain text. Plain text is valid markdown; only line
// endings are normalized.
type textConverter struct{}

// NewTextConverter creates a new text converter
func NewTextConverter() services.ContentConverter {
	return &textConverter{}
}

func (c *textConverter) Convert(ctx context.Context, input []byte) (string, error) {
	return strings.TrimSpace(strings.ReplaceAll(string(input), "\r\n", "\n")), nil
}

func (c *textConverter) SupportedExtensions() []string {
	return []string{".txt"}
}

func (c *textConverter) Name() string {
	return "text"
}
