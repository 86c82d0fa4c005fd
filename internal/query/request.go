package query

import (
	"fmt"
	"strings"

	"promptdex/internal/record"
)

// Pagination bounds applied to every search.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Request carries the caller's filters. String fields hold raw, untrusted
// input; compile validates them against the closed sets.
type Request struct {
	Query      string
	Category   string
	Model      string
	OutputType string
	Limit      int
	Offset     int
}

// compiledRequest is a validated request ready for matching.
type compiledRequest struct {
	tokens     []string
	category   record.Category
	hasCat     bool
	model      record.ModelRef
	hasModel   bool
	outputType record.OutputType
	hasType    bool
	limit      int
	offset     int
}

// compile validates a request. When requireCriteria is set, a request with
// no query and no filters is rejected; random selection accepts one.
func compile(req Request, requireCriteria bool) (*compiledRequest, error) {
	c := &compiledRequest{limit: req.Limit, offset: req.Offset}

	if c.offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", ErrInvalidRequest)
	}
	if c.limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidRequest)
	}
	if c.limit == 0 {
		c.limit = DefaultLimit
	}
	if c.limit > MaxLimit {
		c.limit = MaxLimit
	}

	if trimmed := strings.TrimSpace(req.Query); trimmed != "" {
		c.tokens = distinctTokens(strings.Fields(strings.ToLower(trimmed)))
	}
	if req.Category != "" {
		category, ok := record.ParseCategory(req.Category)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidRequest, req.Category)
		}
		c.category = category
		c.hasCat = true
	}
	if req.Model != "" {
		model, ok := record.ParseModel(req.Model)
		if !ok {
			return nil, fmt.Errorf("%w: unknown model %q", ErrInvalidRequest, req.Model)
		}
		c.model = model
		c.hasModel = true
	}
	if req.OutputType != "" {
		outputType, ok := record.ParseOutputType(req.OutputType)
		if !ok {
			return nil, fmt.Errorf("%w: unknown output type %q", ErrInvalidRequest, req.OutputType)
		}
		c.outputType = outputType
		c.hasType = true
	}

	if requireCriteria && len(c.tokens) == 0 && !c.hasCat && !c.hasModel && !c.hasType {
		return nil, fmt.Errorf("%w: a query or at least one filter is required", ErrInvalidRequest)
	}
	return c, nil
}

// distinctTokens drops repeated query tokens so ranking counts each one
// once, preserving first-appearance order.
func distinctTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, token := range tokens {
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}

func (c *compiledRequest) matchesFilters(rec *record.PromptRecord) bool {
	if c.hasCat && rec.Category != c.category {
		return false
	}
	if c.hasModel && !rec.Model.Equal(c.model) {
		return false
	}
	if c.hasType && rec.OutputType != c.outputType {
		return false
	}
	return true
}
