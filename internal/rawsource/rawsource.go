// Package rawsource reads scraped capture files from the raw directory.
//
// A capture file is one JSON document per scraped origin: source metadata
// plus a flat list of raw records. Files are processed in sorted name order
// so a rebuild over the same directory always sees the same sequence.
package rawsource

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source is one decoded capture file.
type Source struct {
	Name        string      `json:"source"`
	URL         string      `json:"url,omitempty"`
	DefaultType string      `json:"default_type,omitempty"`
	Records     []RawRecord `json:"records"`
}

// RawRecord is a single scraped entry before cleaning or classification.
type RawRecord struct {
	Text  string   `json:"text"`
	Type  string   `json:"type,omitempty"`
	Model string   `json:"model,omitempty"`
	Tags  []string `json:"tags,omitempty"`
	URL   string   `json:"url,omitempty"`
}

// ListFiles returns the capture files under dir in sorted name order.
// A manifest.json written next to captures by scrape tooling is skipped.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read raw directory %s: %w", dir, err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") || name == "manifest.json" {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// LoadFile decodes one capture file. A missing source name falls back to the
// file's base name so every record stays attributable.
func LoadFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read capture %s: %w", path, err)
	}
	var src Source
	if err := json.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("decode capture %s: %w", path, err)
	}
	if src.Name == "" {
		src.Name = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	return &src, nil
}
