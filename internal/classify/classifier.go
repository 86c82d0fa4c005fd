// Package classify assigns a category, model, and output type to cleaned
// prompt text using a declarative rule set.
package classify

import (
	"regexp"
	"strings"

	"promptdex/internal/record"
)

// SourceHints carries per-record metadata from the capture file that informs
// classification before any text analysis happens.
type SourceHints struct {
	// DeclaredType is the free-form type or category field scraped alongside
	// the prompt, e.g. "Video - Sora" or "Logo Design".
	DeclaredType string
	// DeclaredModel is an explicit model attribution from the source.
	DeclaredModel string
	// DefaultType applies when neither the record nor its text indicates an
	// output type.
	DefaultType record.OutputType
}

// Result is the classifier verdict for one prompt.
type Result struct {
	Category   record.Category
	Model      record.ModelRef
	OutputType record.OutputType
	// Unclassified is set when no category rule scored high enough and the
	// record fell through to a fallback bucket.
	Unclassified bool
}

// Classifier is safe for concurrent use once constructed.
type Classifier struct {
	rules *Rules
}

// Midjourney prompts carry trailing parameter flags like "--ar 16:9 --v 6".
var mjFlagPattern = regexp.MustCompile(`--(?:ar|v|style|chaos|no|s|q|iw)\s`)

// NewClassifier builds a classifier from the embedded default rules.
func NewClassifier() (*Classifier, error) {
	rules, err := DefaultRules()
	if err != nil {
		return nil, err
	}
	return &Classifier{rules: rules}, nil
}

// NewClassifierWithRules builds a classifier from an already compiled rule
// set, mainly for tests exercising alternate rules.
func NewClassifierWithRules(rules *Rules) *Classifier {
	return &Classifier{rules: rules}
}

// Classify inspects cleaned prompt text plus source hints and returns the
// category, model, and output type verdict. It never returns an invalid
// category: low-scoring records land in a fallback bucket with Unclassified
// set.
func (c *Classifier) Classify(text string, hints SourceHints) Result {
	lowered := strings.ToLower(text)
	typeLower := strings.ToLower(hints.DeclaredType)

	res := Result{Model: c.resolveModel(text, lowered, typeLower, hints)}

	// Generator and text prompts are their own categories regardless of
	// subject matter.
	if containsAny(lowered, c.rules.signals.Generator) || containsAny(typeLower, c.rules.signals.GeneratorTypes) {
		res.OutputType = record.OutputGenerator
		res.Category = record.CategoryGenerators
		return res
	}
	if containsAny(lowered, c.rules.signals.Text) || containsAny(typeLower, c.rules.signals.TextTypes) {
		res.OutputType = record.OutputText
		res.Category = record.CategoryText
		return res
	}

	switch {
	case containsAny(typeLower, c.rules.signals.VideoTypes),
		containsAny(lowered, c.rules.signals.Video):
		res.OutputType = record.OutputVideo
	case hints.DefaultType.Valid():
		res.OutputType = hints.DefaultType
	default:
		res.OutputType = record.OutputImage
	}

	category, score := c.scoreCategories(lowered, typeLower)
	if score < c.rules.minScore {
		res.Unclassified = true
		if res.OutputType == record.OutputVideo {
			res.Category = c.rules.videoFallback
		} else {
			res.Category = c.rules.fallback
		}
		return res
	}
	res.Category = category
	return res
}

// scoreCategories returns the best-scoring category. Ties go to the category
// listed first in the rules, which orders buckets most specific first.
func (c *Classifier) scoreCategories(lowered, typeLower string) (record.Category, float64) {
	best := c.rules.fallback
	bestScore := 0.0
	for _, cat := range c.rules.categories {
		score := 0.0
		for _, kw := range cat.keywords {
			if !kw.pattern.MatchString(lowered) {
				continue
			}
			if containsAny(lowered, kw.blockers) {
				continue
			}
			score += kw.weight
		}
		if typeLower != "" && containsAny(typeLower, cat.typeTokens) {
			score += 1.0
		}
		if score > bestScore {
			best = cat.name
			bestScore = score
		}
	}
	return best, bestScore
}

// resolveModel works through the attribution sources in decreasing order of
// trust: explicit source metadata, the declared type field, Midjourney flag
// syntax in the text, then model names mentioned in the text.
func (c *Classifier) resolveModel(raw, lowered, typeLower string, hints SourceHints) record.ModelRef {
	if declared := strings.ToLower(strings.TrimSpace(hints.DeclaredModel)); declared != "" {
		if ref, ok := c.matchModelTokens(declared); ok {
			return ref
		}
		if ref, ok := record.ParseModel(declared); ok {
			return ref
		}
	}
	if typeLower != "" {
		if ref, ok := c.matchModelTokens(typeLower); ok {
			return ref
		}
	}
	if mjFlagPattern.MatchString(raw) {
		return record.ExplicitModel("Midjourney")
	}
	if ref, ok := c.matchModelTokens(lowered); ok {
		return ref
	}
	return record.AnyPlatform()
}

func (c *Classifier) matchModelTokens(haystack string) (record.ModelRef, bool) {
	for _, m := range c.rules.models {
		for _, token := range m.tokens {
			if strings.Contains(haystack, token) {
				return m.ref, true
			}
		}
	}
	return record.ModelRef{}, false
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
