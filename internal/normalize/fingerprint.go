package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// fingerprintLength bounds the hex digest kept per record. 16 hex chars (64
// bits) is ample for corpora in the tens of millions before collisions matter.
const fingerprintLength = 16

var punctuationPattern = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

var foldCaser = cases.Fold()

// Fingerprint derives the dedup identity of a prompt: case-folded,
// punctuation stripped, whitespace collapsed, then hashed. Two texts that
// differ only in casing, punctuation, or spacing share a fingerprint.
func Fingerprint(text string) string {
	canonical := CanonicalText(text)
	if canonical == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])[:fingerprintLength]
}

// CanonicalText returns the normalized form that feeds the fingerprint hash.
// Exposed so tests and diagnostics can inspect what actually got hashed.
func CanonicalText(text string) string {
	folded := foldCaser.String(text)
	stripped := punctuationPattern.ReplaceAllString(folded, "")
	collapsed := whitespacePattern.ReplaceAllString(stripped, " ")
	return strings.TrimSpace(collapsed)
}
