package article

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"quill/internal/config"
)

// Slugify derives a URL slug from a title: accents are folded, anything
// that is not a letter or digit becomes a single hyphen.
func Slugify(title string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range norm.NFKD.String(strings.ToLower(title)) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}

	slug := b.String()
	if len(slug) > config.MaxSlugLength {
		slug = strings.TrimRight(slug[:config.MaxSlugLength], "-")
	}
	return slug
}
