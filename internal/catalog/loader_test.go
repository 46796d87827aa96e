package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeCatalogFile(t, `[
		{"title": "승부", "original_title": "The Match", "year": 2025, "genres": ["드라마"]},
		{"title": "오징어 게임", "platforms": ["Netflix"]}
	]`)

	titles, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(titles) != 2 {
		t.Fatalf("got %d titles, want 2", len(titles))
	}
	if titles[0].Title != "승부" || titles[0].Year != 2025 {
		t.Errorf("first title = %+v", titles[0])
	}
	if titles[1].Platforms[0] != "Netflix" {
		t.Errorf("second title = %+v", titles[1])
	}
}

func TestLoadFileRejectsMissingTitle(t *testing.T) {
	path := writeCatalogFile(t, `[{"title": "승부"}, {"year": 2020}]`)
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for entry without title")
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "nope.json")},
		{"malformed json", writeCatalogFile(t, `{"not": "an array"`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFile(tt.path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
