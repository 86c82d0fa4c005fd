package dataset

import "promptdex/internal/record"

// Stats is the aggregate snapshot published next to the collection.
type Stats struct {
	Total      int                       `json:"total"`
	ByCategory map[record.Category]int   `json:"by_category"`
	ByModel    map[string]int            `json:"by_model"`
	ByType     map[record.OutputType]int `json:"by_type"`
	Sources    map[string]int            `json:"sources"`
}

// ComputeStats tallies the record set. Only values that actually occur get a
// key, so an empty dataset yields empty maps rather than zero-filled ones.
func ComputeStats(records []record.PromptRecord) *Stats {
	stats := &Stats{
		Total:      len(records),
		ByCategory: make(map[record.Category]int),
		ByModel:    make(map[string]int),
		ByType:     make(map[record.OutputType]int),
		Sources:    make(map[string]int),
	}
	for _, rec := range records {
		stats.ByCategory[rec.Category]++
		stats.ByModel[rec.Model.String()]++
		stats.ByType[rec.OutputType]++
		stats.Sources[rec.Source]++
	}
	return stats
}
