package article

import (
	"regexp"
	"strings"
	"unicode"

	"quill/internal/domain/services"
)

var (
	fencedCode = regexp.MustCompile("(?s)```.*?```")
	imageLink  = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	link       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	listMarker = regexp.MustCompile(`^(?:[-*+]|\d+\.)\s+`)
)

type contentAnalyzer struct{}

// NewContentAnalyzer creates a new content analyzer
func NewContentAnalyzer() services.ContentAnalyzer {
	return &contentAnalyzer{}
}

// CountWords counts the words a reader sees in compiled markdown.
// Code fences and image alt text are not counted.
func (a *contentAnalyzer) CountWords(markdown string) int {
	count := 0
	for _, word := range strings.FieldsFunc(a.CleanMarkdown(markdown), unicode.IsSpace) {
		if strings.IndexFunc(word, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) >= 0 {
			count++
		}
	}
	return count
}

// CleanMarkdown strips markdown syntax, leaving prose
func (a *contentAnalyzer) CleanMarkdown(markdown string) string {
	text := fencedCode.ReplaceAllString(markdown, "")
	text = imageLink.ReplaceAllString(text, "")
	text = link.ReplaceAllString(text, "$1")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "#>")
		line = strings.TrimSpace(line)
		line = listMarker.ReplaceAllString(line, "")
		if line == "---" || line == "***" {
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	text = strings.Join(lines, " ")

	return strings.NewReplacer("**", "", "__", "", "~~", "", "`", "", "*", "", "_", "").Replace(text)
}
