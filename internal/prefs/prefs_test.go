package prefs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePrefs(t *testing.T, dir, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	path := filepath.Join(dir, "prefs.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p := Load("")
	if p != Default() {
		t.Fatalf("Load = %+v, want %+v", p, Default())
	}
}

func TestLoad_ReadsDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writePrefs(t, filepath.Join(home, ".config", "shelf"), "theme = \"Slate\"\nview_mode = \"grid\"\nrows_per_page = 25\n")

	p := Load("")
	want := Prefs{Theme: "Slate", ViewMode: "grid", RowsPerPage: 25}
	if p != want {
		t.Fatalf("Load = %+v, want %+v", p, want)
	}
}

func TestLoad_NormalizesValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Prefs
	}{
		{"empty theme", "theme = \"\"\n", Default()},
		{"unknown mode", "view_mode = \"cards\"\n", Default()},
		{"mode is case insensitive", "view_mode = \" GRID \"\n", Prefs{Theme: defaultTheme, ViewMode: "grid"}},
		{"negative rows", "rows_per_page = -4\n", Default()},
		{"invalid toml", "not valid toml {{{\n", Default()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePrefs(t, t.TempDir(), tt.body)
			if got := Load(path); got != tt.want {
				t.Fatalf("Load = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "prefs.toml")

	want := Prefs{Theme: "Slate", ViewMode: "grid", RowsPerPage: 5}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if got := Load(path); got != want {
		t.Fatalf("Load after Save = %+v, want %+v", got, want)
	}
}

func TestSave_OmitsUnsetRowsPerPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := Save(path, Prefs{Theme: "Nord"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	got := string(bytes)
	if !strings.Contains(got, "view_mode") || !strings.Contains(got, "table") {
		t.Fatalf("saved prefs %q missing normalized view_mode", got)
	}
	if strings.Contains(got, "rows_per_page") {
		t.Fatalf("saved prefs %q should omit rows_per_page", got)
	}
}
