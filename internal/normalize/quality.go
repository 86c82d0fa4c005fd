package normalize

import (
	"regexp"
	"strings"
)

// RejectReason explains why the quality filter discarded a record.
type RejectReason int

const (
	RejectNone RejectReason = iota
	RejectTooShort
	RejectPlaceholder
	RejectNoise
)

func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectTooShort:
		return "too-short"
	case RejectPlaceholder:
		return "placeholder"
	case RejectNoise:
		return "noise"
	default:
		return "unknown"
	}
}

// DefaultMinLength is the minimum rune count a cleaned prompt must reach to
// survive the quality filter.
const DefaultMinLength = 30

var placeholderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\{\{[^{}]*\}\}`),
	regexp.MustCompile(`(?i)\[(insert|your|add|describe)[^\]]*\]`),
}

// noisePhrases match, case-insensitively, whole texts that are scrape
// artifacts rather than prompts.
var noisePhrases = []string{
	"coming soon",
	"new page",
	"placeholder",
	"lorem ipsum",
	"test",
	"untitled",
	"example",
}

var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^report abuse$`),
	regexp.MustCompile(`(?i)^log in$`),
	regexp.MustCompile(`(?i)^sign up`),
	regexp.MustCompile(`(?i)^add record$`),
	regexp.MustCompile(`(?i)^filter$`),
	regexp.MustCompile(`(?i)^sort$`),
	regexp.MustCompile(`(?i)^gallery$`),
	regexp.MustCompile(`^\d+$`),
	regexp.MustCompile(`(?i)^click each prompt`),
	regexp.MustCompile(`(?i)^interface:`),
}

// Filter screens cleaned prompt text for minimum quality.
type Filter struct {
	minLength int
}

// NewFilter builds a quality filter. A non-positive minLength falls back to
// DefaultMinLength.
func NewFilter(minLength int) *Filter {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	return &Filter{minLength: minLength}
}

// Check reports whether cleaned text should be kept. Noise and placeholder
// checks run before the length gate so short scrape artifacts get attributed
// to their real cause.
func (f *Filter) Check(text string) RejectReason {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return RejectTooShort
	}

	lowered := strings.ToLower(trimmed)
	for _, phrase := range noisePhrases {
		if lowered == phrase {
			return RejectNoise
		}
	}
	for _, pattern := range noisePatterns {
		if pattern.MatchString(trimmed) {
			return RejectNoise
		}
	}
	for _, pattern := range placeholderPatterns {
		if pattern.MatchString(trimmed) {
			return RejectPlaceholder
		}
	}

	if len([]rune(trimmed)) < f.minLength {
		return RejectTooShort
	}
	return RejectNone
}
