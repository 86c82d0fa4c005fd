package record

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ModelKind distinguishes the states of a model reference.
type ModelKind uint8

const (
	// ModelUnclassified is the zero value: classification has not run.
	// It must never appear in a persisted record.
	ModelUnclassified ModelKind = iota
	// ModelExplicit names a generator from the canonical model list.
	ModelExplicit
	// ModelAnyPlatform marks a prompt that genuinely targets no specific
	// generator, as opposed to one that was never classified.
	ModelAnyPlatform
)

// AnyPlatformToken is the wire encoding of the any-platform sentinel.
const AnyPlatformToken = "any-platform"

// knownModels is the canonical generator list, in display form.
var knownModels = []string{
	"Midjourney",
	"Leonardo AI",
	"DALL-E",
	"Stable Diffusion",
	"Flux",
	"Imagen",
	"Mystic",
	"Sora",
	"Ideogram",
	"Adobe Firefly",
	"ChatGPT",
	"Grok",
	"Freepik",
	"PicLumen",
	"RenderNet",
	"Canva",
}

var knownModelSet = func() map[string]string {
	set := make(map[string]string, len(knownModels))
	for _, name := range knownModels {
		set[strings.ToLower(name)] = name
	}
	return set
}()

// KnownModels returns the canonical model list.
func KnownModels() []string {
	cp := make([]string, len(knownModels))
	copy(cp, knownModels)
	return cp
}

// ModelRef is a tagged reference to a generator model.
type ModelRef struct {
	Kind ModelKind
	Name string
}

// ExplicitModel builds a reference to a named generator. The name must come
// from the canonical list; use ParseModel for untrusted input.
func ExplicitModel(name string) ModelRef {
	return ModelRef{Kind: ModelExplicit, Name: name}
}

// AnyPlatform returns the explicit platform-agnostic sentinel.
func AnyPlatform() ModelRef {
	return ModelRef{Kind: ModelAnyPlatform}
}

// ParseModel converts a string into a ModelRef. Canonical model names match
// case-insensitively; "any-platform" (and the spellings "any" and
// "any platform") yield the sentinel.
func ParseModel(value string) (ModelRef, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	switch trimmed {
	case "":
		return ModelRef{}, false
	case AnyPlatformToken, "any", "any platform":
		return AnyPlatform(), true
	}
	if name, ok := knownModelSet[trimmed]; ok {
		return ExplicitModel(name), true
	}
	return ModelRef{}, false
}

// IsClassified reports whether classification has assigned a value.
func (m ModelRef) IsClassified() bool {
	return m.Kind != ModelUnclassified
}

// String renders the reference for display and persistence.
func (m ModelRef) String() string {
	switch m.Kind {
	case ModelExplicit:
		return m.Name
	case ModelAnyPlatform:
		return AnyPlatformToken
	default:
		return ""
	}
}

// Equal compares two references.
func (m ModelRef) Equal(other ModelRef) bool {
	return m.Kind == other.Kind && m.Name == other.Name
}

// MarshalJSON encodes the reference as its string form. Unclassified
// references are rejected so they cannot leak into persisted artifacts.
func (m ModelRef) MarshalJSON() ([]byte, error) {
	if !m.IsClassified() {
		return nil, fmt.Errorf("marshal model: record was never classified")
	}
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes the string form written by MarshalJSON.
func (m *ModelRef) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	parsed, ok := ParseModel(value)
	if !ok {
		return fmt.Errorf("unmarshal model: unknown value %q", value)
	}
	*m = parsed
	return nil
}
