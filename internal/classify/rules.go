package classify

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"promptdex/internal/record"
)

//go:embed rules.toml
var defaultRulesTOML []byte

type rulesFile struct {
	MinScore      float64           `toml:"min_score"`
	Fallback      string            `toml:"fallback"`
	VideoFallback string            `toml:"video_fallback"`
	Signals       signalsSection    `toml:"signals"`
	Models        []modelSection    `toml:"models"`
	Categories    []categorySection `toml:"categories"`
}

type signalsSection struct {
	Video          []string `toml:"video"`
	VideoTypes     []string `toml:"video_types"`
	Text           []string `toml:"text"`
	TextTypes      []string `toml:"text_types"`
	Generator      []string `toml:"generator"`
	GeneratorTypes []string `toml:"generator_types"`
}

type modelSection struct {
	Name   string   `toml:"name"`
	Tokens []string `toml:"tokens"`
}

type categorySection struct {
	Name       string              `toml:"name"`
	TypeTokens []string            `toml:"type_tokens"`
	Keywords   map[string]float64  `toml:"keywords"`
	Blockers   map[string][]string `toml:"blockers"`
}

// Rules is the compiled rule set driving classification. Category order is
// significant: earlier categories win score ties.
type Rules struct {
	minScore      float64
	fallback      record.Category
	videoFallback record.Category
	signals       signalsSection
	models        []modelRule
	categories    []categoryRule
}

type modelRule struct {
	ref    record.ModelRef
	tokens []string
}

type categoryRule struct {
	name       record.Category
	typeTokens []string
	keywords   []keywordRule
}

type keywordRule struct {
	term     string
	weight   float64
	pattern  *regexp.Regexp
	blockers []string
}

// DefaultRules parses the embedded rule set.
func DefaultRules() (*Rules, error) {
	return ParseRules(defaultRulesTOML)
}

// ParseRules decodes and validates a TOML rule set.
func ParseRules(data []byte) (*Rules, error) {
	var file rulesFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	return compileRules(file)
}

func compileRules(file rulesFile) (*Rules, error) {
	if file.MinScore <= 0 {
		return nil, fmt.Errorf("min_score must be positive, got %v", file.MinScore)
	}
	fallback, ok := record.ParseCategory(file.Fallback)
	if !ok {
		return nil, fmt.Errorf("unknown fallback category %q", file.Fallback)
	}
	videoFallback, ok := record.ParseCategory(file.VideoFallback)
	if !ok {
		return nil, fmt.Errorf("unknown video_fallback category %q", file.VideoFallback)
	}

	rules := &Rules{
		minScore:      file.MinScore,
		fallback:      fallback,
		videoFallback: videoFallback,
		signals:       file.Signals,
	}

	seenModels := make(map[string]struct{}, len(file.Models))
	for _, m := range file.Models {
		ref, ok := record.ParseModel(m.Name)
		if !ok || !ref.IsClassified() {
			return nil, fmt.Errorf("unknown model %q", m.Name)
		}
		if _, dup := seenModels[m.Name]; dup {
			return nil, fmt.Errorf("duplicate model %q", m.Name)
		}
		seenModels[m.Name] = struct{}{}
		if len(m.Tokens) == 0 {
			return nil, fmt.Errorf("model %q has no tokens", m.Name)
		}
		rules.models = append(rules.models, modelRule{ref: ref, tokens: m.Tokens})
	}

	seenCategories := make(map[record.Category]struct{}, len(file.Categories))
	for _, c := range file.Categories {
		name, ok := record.ParseCategory(c.Name)
		if !ok {
			return nil, fmt.Errorf("unknown category %q", c.Name)
		}
		if _, dup := seenCategories[name]; dup {
			return nil, fmt.Errorf("duplicate category %q", c.Name)
		}
		seenCategories[name] = struct{}{}
		if len(c.Keywords) == 0 {
			return nil, fmt.Errorf("category %q has no keywords", c.Name)
		}

		compiled, err := compileKeywords(c)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", c.Name, err)
		}
		rules.categories = append(rules.categories, categoryRule{
			name:       name,
			typeTokens: c.TypeTokens,
			keywords:   compiled,
		})
	}
	if len(rules.categories) == 0 {
		return nil, fmt.Errorf("no categories defined")
	}
	return rules, nil
}

// compileKeywords returns keyword rules in sorted term order so score sums
// accumulate in a stable sequence.
func compileKeywords(c categorySection) ([]keywordRule, error) {
	terms := make([]string, 0, len(c.Keywords))
	for term := range c.Keywords {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	for term := range c.Blockers {
		if _, ok := c.Keywords[term]; !ok {
			return nil, fmt.Errorf("blocker for unknown keyword %q", term)
		}
	}

	compiled := make([]keywordRule, 0, len(terms))
	for _, term := range terms {
		weight := c.Keywords[term]
		if weight <= 0 {
			return nil, fmt.Errorf("keyword %q has non-positive weight %v", term, weight)
		}
		pattern, err := regexp.Compile(`\b` + regexp.QuoteMeta(term) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("keyword %q: %w", term, err)
		}
		compiled = append(compiled, keywordRule{
			term:     term,
			weight:   weight,
			pattern:  pattern,
			blockers: c.Blockers[term],
		})
	}
	return compiled, nil
}
