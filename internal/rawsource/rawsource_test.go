package rawsource

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "zeta.json", "{}")
	writeFile(t, dir, "alpha.json", "{}")
	writeFile(t, dir, "manifest.json", "{}")
	writeFile(t, dir, "notes.txt", "ignore me")
	if err := os.Mkdir(filepath.Join(dir, "nested.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %v", len(files), files)
	}
	if filepath.Base(files[0]) != "alpha.json" || filepath.Base(files[1]) != "zeta.json" {
		t.Errorf("files not in sorted order: %v", files)
	}
}

func TestListFilesMissingDir(t *testing.T) {
	if _, err := ListFiles(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "gallery.json", `{
		"source": "prompt-gallery",
		"url": "https://example.com/gallery",
		"default_type": "video",
		"records": [
			{"text": "a lone samurai in bamboo forest", "type": "Video - Sora", "tags": ["cinematic"]},
			{"text": "neon city at night", "model": "Midjourney"}
		]
	}`)

	src, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if src.Name != "prompt-gallery" {
		t.Errorf("Name = %q", src.Name)
	}
	if src.DefaultType != "video" {
		t.Errorf("DefaultType = %q", src.DefaultType)
	}
	if len(src.Records) != 2 {
		t.Fatalf("got %d records", len(src.Records))
	}
	if src.Records[0].Type != "Video - Sora" || src.Records[0].Tags[0] != "cinematic" {
		t.Errorf("first record decoded wrong: %+v", src.Records[0])
	}
	if src.Records[1].Model != "Midjourney" {
		t.Errorf("second record decoded wrong: %+v", src.Records[1])
	}
}

func TestLoadFileNameFallback(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "scraped-site.json", `{"records": []}`)

	src, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if src.Name != "scraped-site" {
		t.Errorf("Name = %q, want scraped-site", src.Name)
	}
}

func TestLoadFileMalformed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.json", `{"records": [`)
	if _, err := LoadFile(path); err == nil {
		t.Error("expected decode error")
	}
}
