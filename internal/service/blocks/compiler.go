package blocks

import (
	"strings"

	models "quill/internal/domain/models/blocks"
)

const (
	fence           = "```"
	blockSeparator  = "\n\n"
	defaultImageAlt = "Image"
)

// Compile flattens a document into markdown, depth-first in section,
// column, block order. Blocks are joined by a blank line; column and
// section boundaries are not encoded, so the output cannot be parsed back
// into sections. It is the derived legacy `content` of an article, never a
// source of truth.
//
// Compile is deterministic and total: unknown block types and empty
// columns contribute nothing, and an empty document compiles to "".
func Compile(doc models.Document) string {
	c := &markdownCompiler{}
	for _, section := range doc.Sections {
		for _, column := range section.Columns {
			for _, block := range column.Blocks {
				_ = block.Accept(c)
			}
		}
	}
	return strings.Join(c.parts, blockSeparator)
}

// CompileBlock returns the markdown emission of a single block.
func CompileBlock(b models.Block) string {
	c := &markdownCompiler{}
	_ = b.Accept(c)
	return strings.Join(c.parts, blockSeparator)
}

type markdownCompiler struct {
	parts []string
}

func (c *markdownCompiler) emit(s string) {
	if s != "" {
		c.parts = append(c.parts, s)
	}
}

func (c *markdownCompiler) Text(b models.Block) {
	c.emit(b.Content)
}

func (c *markdownCompiler) Image(b models.Block) {
	alt := b.Caption
	if alt == "" {
		alt = defaultImageAlt
	}
	c.emit("![" + alt + "](" + b.ImageURL + ")")
}

func (c *markdownCompiler) Code(b models.Block) {
	c.emit(fence + b.Language + "\n" + b.Content + "\n" + fence)
}

func (c *markdownCompiler) Quote(b models.Block) {
	if b.Content == "" {
		return
	}
	lines := strings.Split(b.Content, "\n")
	for i, line := range lines {
		lines[i] = "> " + line
	}
	c.emit(strings.Join(lines, "\n"))
}

func (c *markdownCompiler) Divider(models.Block) {
	c.emit("---")
}

func (c *markdownCompiler) FileTree(b models.Block) {
	c.emit(fence + "\n" + b.Content + "\n" + fence)
}
