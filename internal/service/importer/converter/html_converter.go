package converter

import (
	"context"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"quill/internal/domain/services"
	"quill/internal/service/sanitizer"
)

// htmlConverter sanitizes HTML, then converts it to markdown
type htmlConverter struct {
	sanitizer *sanitizer.HTMLSanitizer
	converter *md.Converter
}

// NewHTMLConverter creates a new HTML to markdown converter
func NewHTMLConverter() services.ContentConverter {
	return &htmlConverter{
		sanitizer: sanitizer.NewHTMLSanitizer(),
		converter: md.NewConverter("", true, nil),
	}
}

// Convert strips scripts, event handlers and javascript: URLs before the
// markdown conversion so none of them can survive into a block.
func (c *htmlConverter) Convert(ctx context.Context, input []byte) (string, error) {
	sanitized, err := c.sanitizer.Sanitize(string(input))
	if err != nil {
		return "", fmt.Errorf("failed to sanitize HTML: %w", err)
	}

	markdown, err := c.converter.ConvertString(sanitized)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}

	return strings.TrimSpace(markdown), nil
}

func (c *htmlConverter) SupportedExtensions() []string {
	return []string{".html", ".htm"}
}

func (c *htmlConverter) Name() string {
	return "html"
}
