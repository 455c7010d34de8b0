package sanitizer

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer removes dangerous HTML elements and attributes.
//
// Thread-safe for concurrent use.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

var (
	classTokens = regexp.MustCompile(`^[a-zA-Z0-9_\- ]+$`)
	percentage  = regexp.MustCompile(`^[0-9]{1,3}%$`)
)

// NewHTMLSanitizer creates a sanitizer for untrusted imported HTML.
// Uses the UGC (User Generated Content) policy: common formatting survives,
// scripts, event handlers and javascript: URLs do not. Embedded data-URI
// images are kept since image blocks may carry them.
func NewHTMLSanitizer() *HTMLSanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowDataURIImages()

	return &HTMLSanitizer{policy: policy}
}

// NewArticleSanitizer creates the policy applied to rendered article HTML.
// On top of UGC it keeps the layout markup the renderer emits: class names
// on structural elements and the percentage flex-basis of section columns.
func NewArticleSanitizer() *HTMLSanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowDataURIImages()
	policy.AllowElements("figure", "figcaption", "section")
	policy.AllowAttrs("class").Matching(classTokens).
		OnElements("div", "section", "pre", "code", "figure", "figcaption", "ul", "p", "blockquote")
	policy.AllowStyles("flex-basis").Matching(percentage).OnElements("div")

	return &HTMLSanitizer{policy: policy}
}

// Sanitize removes dangerous HTML while preserving safe content.
func (s *HTMLSanitizer) Sanitize(html string) (string, error) {
	return s.policy.Sanitize(html), nil
}
