package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestExcludeArgs(t *testing.T) {
	cfg := SearchConfig{ExcludeDirs: []string{"node_modules", ".git"}}

	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"ripgrep", cfg.RipgrepExcludeArgs(), []string{"--glob", "!node_modules/**", "--glob", "!.git/**"}},
		{"grep", cfg.GrepExcludeArgs(), []string{"--exclude-dir=node_modules", "--exclude-dir=.git"}},
		{"fd", cfg.FdExcludeArgs(), []string{"--exclude", "node_modules", "--exclude", ".git"}},
		{"find", cfg.FindExcludeArgs(), []string{"-not", "-path", "*node_modules*", "-not", "-path", "*.git*"}},
	}

	for _, tt := range tests {
		if !reflect.DeepEqual(tt.got, tt.want) {
			t.Errorf("%s args = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestExcludeArgs_Empty(t *testing.T) {
	cfg := SearchConfig{}
	if len(cfg.RipgrepExcludeArgs()) != 0 || len(cfg.GrepExcludeArgs()) != 0 ||
		len(cfg.FdExcludeArgs()) != 0 || len(cfg.FindExcludeArgs()) != 0 {
		t.Fatalf("empty config should produce no exclusion args")
	}
}

func TestLoadSearch_WritesDefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "search.yaml")

	cfg, err := LoadSearch(path)
	if err != nil {
		t.Fatalf("LoadSearch: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultSearchConfig()) {
		t.Fatalf("expected defaults, got %+v", cfg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("defaults were not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "# filecast search configuration") {
		t.Fatalf("missing header in %q", data)
	}
	if !strings.Contains(string(data), "node_modules") {
		t.Fatalf("missing default entries in %q", data)
	}
}

func TestLoadSearch_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search.yaml")
	want := SearchConfig{ExcludeDirs: []string{"vendor"}}
	if err := want.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := LoadSearch(path)
	if err != nil {
		t.Fatalf("LoadSearch: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("LoadSearch = %+v, want %+v", got, want)
	}
}

func TestLoadSearch_InvalidYAMLFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search.yaml")
	if err := os.WriteFile(path, []byte("exclude_dirs: [unterminated"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadSearch(path)
	if err != nil {
		t.Fatalf("LoadSearch: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultSearchConfig()) {
		t.Fatalf("expected defaults on parse failure, got %+v", cfg)
	}
}

func TestLoadSettings_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("show_hidden: true\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if !s.ShowHidden {
		t.Fatalf("show_hidden not applied")
	}
	if s.RecentLimit != DefaultRecentLimit || s.LogLevel != "info" {
		t.Fatalf("defaults lost: %+v", s)
	}
}
