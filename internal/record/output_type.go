package record

import "strings"

// OutputType describes what kind of artifact a prompt produces.
type OutputType string

const (
	OutputImage     OutputType = "image"
	OutputVideo     OutputType = "video"
	OutputText      OutputType = "text"
	OutputGenerator OutputType = "generator"
)

var allOutputTypes = []OutputType{OutputImage, OutputVideo, OutputText, OutputGenerator}

var outputTypeSet = func() map[OutputType]struct{} {
	set := make(map[OutputType]struct{}, len(allOutputTypes))
	for _, t := range allOutputTypes {
		set[t] = struct{}{}
	}
	return set
}()

// OutputTypes returns the closed output-type set.
func OutputTypes() []OutputType {
	cp := make([]OutputType, len(allOutputTypes))
	copy(cp, allOutputTypes)
	return cp
}

// ParseOutputType converts a string into a known OutputType.
func ParseOutputType(value string) (OutputType, bool) {
	normalized := OutputType(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := outputTypeSet[normalized]
	return normalized, ok
}

// Valid reports whether the output type belongs to the closed set.
func (t OutputType) Valid() bool {
	_, ok := outputTypeSet[t]
	return ok
}
