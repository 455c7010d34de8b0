package blocks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "quill/internal/domain/models/blocks"
)

func TestRender_SectionLayout(t *testing.T) {
	r := NewRenderer()

	doc, err := InsertSection(models.Document{}, models.LayoutTwoLeft, 0)
	require.NoError(t, err)
	doc, err = InsertBlockWithContent(doc, 0, 0, models.BlockTypeText, "left side")
	require.NoError(t, err)

	out := r.Render(doc)
	assert.Contains(t, out, `section--two-left`)
	assert.Contains(t, out, `flex-basis`)
	assert.Contains(t, out, `70%`)
	assert.Contains(t, out, `30%`)
	assert.Contains(t, out, "<p>left side</p>")
}

func TestRender_EmptyDocument(t *testing.T) {
	assert.Equal(t, "", NewRenderer().Render(models.Document{}))
}

func TestRenderBlock(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		name     string
		block    models.Block
		contains []string
		empty    bool
	}{
		{
			name:     "prose headings and lists",
			block:    models.Block{Type: models.BlockTypeText, Content: "## Intro\nHello\n\n- one\n- two\n### Next"},
			contains: []string{"<h2>Intro</h2>", "<p>Hello</p>", "<ul><li>one</li><li>two</li></ul>", "<h3>Next</h3>"},
		},
		{
			name:     "text is escaped",
			block:    models.Block{Type: models.BlockTypeText, Content: "<script>alert(1)</script>"},
			contains: []string{"&lt;script&gt;"},
		},
		{
			name:     "image with caption",
			block:    models.Block{Type: models.BlockTypeImage, ImageURL: "https://example.com/a.png", Caption: "Chart"},
			contains: []string{`src="https://example.com/a.png"`, `alt="Chart"`, "<figcaption>Chart</figcaption>"},
		},
		{
			name:     "code keeps language class",
			block:    models.Block{Type: models.BlockTypeCode, Language: "go", Content: "a < b"},
			contains: []string{`class="language-go"`, "a &lt; b"},
		},
		{
			name:     "quote lines",
			block:    models.Block{Type: models.BlockTypeQuote, Content: "one\ntwo"},
			contains: []string{"<blockquote", "one<br", "two</blockquote>"},
		},
		{
			name:     "divider",
			block:    models.Block{Type: models.BlockTypeDivider},
			contains: []string{"<hr"},
		},
		{
			name:     "file tree",
			block:    models.Block{Type: models.BlockTypeFileTree, Content: "src/\n  app.go"},
			contains: []string{"block--file-tree", "src/\n  app.go"},
		},
		{name: "image without url", block: models.Block{Type: models.BlockTypeImage, Caption: "lost"}, empty: true},
		{name: "code without content", block: models.Block{Type: models.BlockTypeCode, Language: "go"}, empty: true},
		{name: "unknown type", block: models.Block{Type: "video", Content: "x"}, empty: true},
		{name: "blank text", block: models.Block{Type: models.BlockTypeText, Content: "  \n "}, empty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := r.RenderBlock(tt.block)
			if tt.empty {
				assert.Empty(t, out)
				return
			}
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestRender_MalformedBlockDoesNotBlankArticle(t *testing.T) {
	doc := singleBlockDoc(models.Block{ID: "bad", Type: "embed"})
	doc.Sections[0].Columns[0].Blocks = append(doc.Sections[0].Columns[0].Blocks,
		models.Block{ID: "good", Type: models.BlockTypeText, Content: "still here"})

	out := NewRenderer().Render(doc)
	assert.Contains(t, out, "still here")
}

func TestRender_StripsInjectedMarkup(t *testing.T) {
	doc := singleBlockDoc(models.Block{ID: "img", Type: models.BlockTypeImage, ImageURL: "javascript:alert(1)"})
	out := NewRenderer().Render(doc)
	assert.NotContains(t, out, "javascript:")
}
