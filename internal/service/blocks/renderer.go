package blocks

import (
	"fmt"
	"html"
	"strings"

	models "quill/internal/domain/models/blocks"
	"quill/internal/service/sanitizer"
)

// Renderer turns a document into article HTML. Each section becomes a flex
// row whose columns carry the layout's relative widths; each block renders
// according to its type.
//
// Malformed blocks (unknown type, image without URL, code without content)
// render nothing so that one corrupt block never blanks the whole article.
type Renderer struct {
	sanitizer *sanitizer.HTMLSanitizer
}

// NewRenderer creates a renderer whose output passes the article sanitizer.
func NewRenderer() *Renderer {
	return &Renderer{sanitizer: sanitizer.NewArticleSanitizer()}
}

// Render returns sanitized HTML for doc. An empty document renders as "".
func (r *Renderer) Render(doc models.Document) string {
	var sb strings.Builder
	for _, section := range doc.Sections {
		widths := section.Widths()
		fmt.Fprintf(&sb, `<div class="section section--%s">`, html.EscapeString(string(section.LayoutType)))
		for i, column := range section.Columns {
			if i < len(widths) {
				fmt.Fprintf(&sb, `<div class="column" style="flex-basis:%d%%">`, widths[i])
			} else {
				sb.WriteString(`<div class="column">`)
			}
			for _, block := range column.Blocks {
				_ = block.Accept(&htmlBlockWriter{sb: &sb})
			}
			sb.WriteString(`</div>`)
		}
		sb.WriteString(`</div>`)
	}
	return r.sanitize(sb.String())
}

// RenderBlock returns sanitized HTML for a single block.
func (r *Renderer) RenderBlock(b models.Block) string {
	var sb strings.Builder
	_ = b.Accept(&htmlBlockWriter{sb: &sb})
	return r.sanitize(sb.String())
}

func (r *Renderer) sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	out, err := r.sanitizer.Sanitize(raw)
	if err != nil {
		return ""
	}
	return out
}

type htmlBlockWriter struct {
	sb *strings.Builder
}

func (w *htmlBlockWriter) Text(b models.Block) {
	if strings.TrimSpace(b.Content) == "" {
		return
	}
	w.sb.WriteString(`<div class="block block--text">`)
	w.sb.WriteString(formatProse(b.Content))
	w.sb.WriteString(`</div>`)
}

func (w *htmlBlockWriter) Image(b models.Block) {
	if b.ImageURL == "" {
		return
	}
	alt := b.Caption
	if alt == "" {
		alt = defaultImageAlt
	}
	fmt.Fprintf(w.sb, `<figure class="block block--image"><img src="%s" alt="%s">`,
		html.EscapeString(b.ImageURL), html.EscapeString(alt))
	if b.Caption != "" {
		fmt.Fprintf(w.sb, `<figcaption>%s</figcaption>`, html.EscapeString(b.Caption))
	}
	w.sb.WriteString(`</figure>`)
}

func (w *htmlBlockWriter) Code(b models.Block) {
	if b.Content == "" {
		return
	}
	w.sb.WriteString(`<pre class="block block--code">`)
	if b.Language != "" {
		fmt.Fprintf(w.sb, `<code class="language-%s">`, html.EscapeString(b.Language))
	} else {
		w.sb.WriteString(`<code>`)
	}
	w.sb.WriteString(html.EscapeString(b.Content))
	w.sb.WriteString(`</code></pre>`)
}

func (w *htmlBlockWriter) Quote(b models.Block) {
	if b.Content == "" {
		return
	}
	lines := strings.Split(b.Content, "\n")
	for i, line := range lines {
		lines[i] = html.EscapeString(line)
	}
	fmt.Fprintf(w.sb, `<blockquote class="block block--quote">%s</blockquote>`, strings.Join(lines, "<br>"))
}

func (w *htmlBlockWriter) Divider(models.Block) {
	w.sb.WriteString(`<hr>`)
}

func (w *htmlBlockWriter) FileTree(b models.Block) {
	if b.Content == "" {
		return
	}
	fmt.Fprintf(w.sb, `<pre class="block block--file-tree">%s</pre>`, html.EscapeString(b.Content))
}

// formatProse renders the small markdown subset text blocks support:
// "## " and "### " headings, "- " list items, and blank-line separated
// paragraphs. Everything else is escaped text.
func formatProse(content string) string {
	var sb strings.Builder
	var para []string
	inList := false

	flushPara := func() {
		if len(para) > 0 {
			sb.WriteString("<p>" + strings.Join(para, " ") + "</p>")
			para = nil
		}
	}
	closeList := func() {
		if inList {
			sb.WriteString("</ul>")
			inList = false
		}
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flushPara()
			closeList()
		case strings.HasPrefix(trimmed, "### "):
			flushPara()
			closeList()
			sb.WriteString("<h3>" + html.EscapeString(strings.TrimPrefix(trimmed, "### ")) + "</h3>")
		case strings.HasPrefix(trimmed, "## "):
			flushPara()
			closeList()
			sb.WriteString("<h2>" + html.EscapeString(strings.TrimPrefix(trimmed, "## ")) + "</h2>")
		case strings.HasPrefix(trimmed, "- "):
			flushPara()
			if !inList {
				sb.WriteString("<ul>")
				inList = true
			}
			sb.WriteString("<li>" + html.EscapeString(strings.TrimPrefix(trimmed, "- ")) + "</li>")
		default:
			closeList()
			para = append(para, html.EscapeString(trimmed))
		}
	}
	flushPara()
	closeList()
	return sb.String()
}
