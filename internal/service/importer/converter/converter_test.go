package converter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/domain"
)

func TestConverterRegistry_Convert(t *testing.T) {
	r := NewConverterRegistry()
	ctx := context.Background()

	tests := []struct {
		name     string
		filename string
		input    string
		want     string
		contains []string
		absent   []string
	}{
		{
			name:     "markdown drops front matter",
			filename: "post.md",
			input:    "---\ntitle: Ignored\n---\n\n## Heading\n\nBody\n",
			want:     "## Heading\n\nBody",
		},
		{
			name:     "extension is case insensitive",
			filename: "NOTES.MARKDOWN",
			input:    "plain",
			want:     "plain",
		},
		{
			name:     "text normalizes line endings",
			filename: "notes.txt",
			input:    "line one\r\nline two\r\n",
			want:     "line one\nline two",
		},
		{
			name:     "html converts and sanitizes",
			filename: "page.html",
			input:    `<h2>Title</h2><p>Hello <strong>world</strong></p><script>alert(1)</script><a href="javascript:alert(1)">x</a>`,
			contains: []string{"## Title", "Hello **world**"},
			absent:   []string{"script", "alert", "javascript:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Convert(ctx, tt.filename, []byte(tt.input))
			require.NoError(t, err)
			if tt.want != "" {
				assert.Equal(t, tt.want, got)
			}
			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestConverterRegistry_Unsupported(t *testing.T) {
	r := NewConverterRegistry()

	_, err := r.Convert(context.Background(), "slides.pdf", []byte("%PDF"))
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), ".pdf")
}

func TestConverterRegistry_SupportedExtensions(t *testing.T) {
	assert.Equal(t,
		[]string{".htm", ".html", ".markdown", ".md", ".txt"},
		NewConverterRegistry().SupportedExtensions())
}

func TestMarkdownConverter_BadFrontMatter(t *testing.T) {
	_, err := NewMarkdownConverter().Convert(context.Background(), []byte("---\ntitle: x\n"))
	require.ErrorIs(t, err, domain.ErrValidation)
}
