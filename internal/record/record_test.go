package record

import (
	"encoding/json"
	"testing"
)

func TestCategoryClosedSet(t *testing.T) {
	cats := Categories()
	if len(cats) != 19 {
		t.Fatalf("Categories() = %d entries, want 19", len(cats))
	}
	seen := make(map[Category]struct{}, len(cats))
	for _, cat := range cats {
		if _, dup := seen[cat]; dup {
			t.Errorf("duplicate category %q", cat)
		}
		seen[cat] = struct{}{}
		if !cat.Valid() {
			t.Errorf("category %q not valid against its own set", cat)
		}
	}
	if cats[len(cats)-1] != CategoryGeneral {
		t.Errorf("canonical ordering should end with general, got %q", cats[len(cats)-1])
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input string
		want  Category
		ok    bool
	}{
		{"fantasy", CategoryFantasy, true},
		{"  Fantasy ", CategoryFantasy, true},
		{"SCI-FI-FUTURISTIC", CategorySciFiFuturistic, true},
		{"nonexistent-category", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseCategory(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseCategory(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseOutputType(t *testing.T) {
	if got := OutputTypes(); len(got) != 4 {
		t.Fatalf("OutputTypes() = %d entries, want 4", len(got))
	}
	if _, ok := ParseOutputType("Video"); !ok {
		t.Error("expected video to parse")
	}
	if _, ok := ParseOutputType("hologram"); ok {
		t.Error("expected hologram to be rejected")
	}
}

func TestModelRefStates(t *testing.T) {
	var unclassified ModelRef
	if unclassified.IsClassified() {
		t.Error("zero ModelRef must read as unclassified")
	}
	if AnyPlatform().Equal(unclassified) {
		t.Error("any-platform sentinel must differ from unclassified")
	}
	if got := ExplicitModel("Midjourney").String(); got != "Midjourney" {
		t.Errorf("explicit String() = %q", got)
	}
	if got := AnyPlatform().String(); got != AnyPlatformToken {
		t.Errorf("any-platform String() = %q", got)
	}
}

func TestParseModel(t *testing.T) {
	tests := []struct {
		input string
		want  ModelRef
		ok    bool
	}{
		{"midjourney", ExplicitModel("Midjourney"), true},
		{"Stable Diffusion", ExplicitModel("Stable Diffusion"), true},
		{"any-platform", AnyPlatform(), true},
		{"Any Platform", AnyPlatform(), true},
		{"any", AnyPlatform(), true},
		{"skynet", ModelRef{}, false},
		{"", ModelRef{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseModel(tt.input)
		if ok != tt.ok || !got.Equal(tt.want) {
			t.Errorf("ParseModel(%q) = (%+v, %v), want (%+v, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestModelRefJSON(t *testing.T) {
	data, err := json.Marshal(AnyPlatform())
	if err != nil {
		t.Fatalf("marshal any-platform: %v", err)
	}
	var decoded ModelRef
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Equal(AnyPlatform()) {
		t.Errorf("round trip = %+v, want any-platform", decoded)
	}

	if _, err := json.Marshal(ModelRef{}); err == nil {
		t.Error("marshaling an unclassified model must fail")
	}
}

func TestPromptRecordValidate(t *testing.T) {
	valid := PromptRecord{
		ID:          1,
		Text:        "a lone samurai in a bamboo forest",
		Category:    CategoryFantasy,
		Model:       AnyPlatform(),
		OutputType:  OutputImage,
		Source:      "test-source",
		Fingerprint: "abc123",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*PromptRecord)
	}{
		{"empty text", func(r *PromptRecord) { r.Text = "" }},
		{"bad category", func(r *PromptRecord) { r.Category = "memes" }},
		{"bad output type", func(r *PromptRecord) { r.OutputType = "audio" }},
		{"unclassified model", func(r *PromptRecord) { r.Model = ModelRef{} }},
		{"empty fingerprint", func(r *PromptRecord) { r.Fingerprint = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := valid
			tt.mutate(&rec)
			if err := rec.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
