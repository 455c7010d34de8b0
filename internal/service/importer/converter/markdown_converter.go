package converter

import (
	"context"
	"fmt"
	"strings"

	"quill/internal/domain"
	"quill/internal/domain/services"
	"quill/internal/frontmatter"
)

// markdownConverter passes markdown through, dropping any front matter:
// article metadata is edited separately and never comes from a block.
type markdownConverter struct{}

// NewMarkdownConverter creates a new markdown converter
func NewMarkdownConverter() services.ContentConverter {
	return &markdownConverter{}
}

func (c *markdownConverter) Convert(ctx context.Context, input []byte) (string, error) {
	_, body, _, err := frontmatter.Split(input)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return strings.TrimSpace(body), nil
}

func (c *markdownConverter) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

func (c *markdownConverter) Name() string {
	return "markdown"
}
