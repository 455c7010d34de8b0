package article

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountWords(t *testing.T) {
	a := NewContentAnalyzer()

	tests := []struct {
		name     string
		markdown string
		want     int
	}{
		{"empty", "", 0},
		{"plain", "three plain words", 3},
		{"emphasis", "Some **bold** and _italic_ text", 5},
		{"code fences are skipped", "before\n\n```go\nx := 1\n```\n\nafter", 2},
		{"images are skipped", "![Chart](/a.png)\n\ncaption text", 2},
		{"link text counts", "see [the docs](https://example.com)", 3},
		{"headings quotes and rules", "## Title\n\n> quoted line\n\n---\n\n- item", 4},
		{"punctuation only", "- * --", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.CountWords(tt.markdown))
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Héllo, Wörld! 2026  ", "hello-world-2026"},
		{"Go & Rust: a comparison", "go-rust-a-comparison"},
		{"already-a-slug", "already-a-slug"},
		{"!!!", ""},
		{"日本語", ""},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}
