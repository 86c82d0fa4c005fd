package record

// PromptRecord is a single persisted, classified prompt in the curated
// dataset. Records are created by a pipeline run, written once, and never
// mutated afterwards; the only way to change the dataset is to rerun the
// pipeline and replace the published set wholesale.
type PromptRecord struct {
	ID          int64      `json:"id"`
	Text        string     `json:"text"`
	Category    Category   `json:"category"`
	Model       ModelRef   `json:"model"`
	OutputType  OutputType `json:"output_type"`
	Tags        []string   `json:"tags,omitempty"`
	Source      string     `json:"source"`
	Fingerprint string     `json:"fingerprint"`
}

// Validate checks the closed-set invariants every persisted record must hold.
func (r PromptRecord) Validate() error {
	switch {
	case r.Text == "":
		return errEmptyText
	case !r.Category.Valid():
		return errBadCategory
	case !r.OutputType.Valid():
		return errBadOutputType
	case !r.Model.IsClassified():
		return errUnclassifiedModel
	case r.Fingerprint == "":
		return errEmptyFingerprint
	}
	return nil
}
