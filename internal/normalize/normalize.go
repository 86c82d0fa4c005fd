package normalize

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// CleanText canonicalizes raw scraped text for display and storage: HTML
// escape sequences are resolved, control characters dropped, and internal
// whitespace collapsed to single spaces. Casing is preserved.
func CleanText(raw string) string {
	unescaped := html.UnescapeString(raw)

	var b strings.Builder
	b.Grow(len(unescaped))
	for _, r := range unescaped {
		switch {
		case r == '\n' || r == '\t' || r == '\r':
			b.WriteByte(' ')
		case unicode.IsControl(r) || r == '\uFEFF':
			// dropped
		default:
			b.WriteRune(r)
		}
	}

	collapsed := whitespacePattern.ReplaceAllString(b.String(), " ")
	return strings.TrimSpace(collapsed)
}
