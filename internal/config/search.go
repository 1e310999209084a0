package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const searchHeader = "# filecast search configuration\n# Directories listed here are skipped by @ (content) and / (name) searches.\n\n"

// SearchConfig lists directory names skipped by external search tools.
type SearchConfig struct {
	ExcludeDirs []string `yaml:"exclude_dirs"`
}

// DefaultSearchConfig returns the built-in exclusion list.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		ExcludeDirs: []string{
			"node_modules",
			".next",
			".git",
			"target",
			"dist",
			"build",
			"__pycache__",
			".venv",
			"venv",
			".cache",
		},
	}
}

// DefaultSearchPath is <user config dir>/filecast/search.yaml.
func DefaultSearchPath() string {
	return filepath.Join(configRoot(), "search.yaml")
}

// LoadSearch reads path. A missing or unparsable file yields the defaults,
// which are written back so the user has something to edit.
func LoadSearch(path string) (SearchConfig, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		cfg := SearchConfig{}
		if uerr := yaml.Unmarshal(data, &cfg); uerr == nil {
			return cfg, nil
		}
	}

	cfg := DefaultSearchConfig()
	if serr := cfg.Save(path); serr != nil {
		return cfg, serr
	}
	return cfg, nil
}

// Save writes the config as YAML with a short comment header.
func (c SearchConfig) Save(path string) error {
	return writeYAML(path, searchHeader, c)
}

// RipgrepExcludeArgs returns one "--glob !<dir>/**" pair per excluded directory.
func (c SearchConfig) RipgrepExcludeArgs() []string {
	args := make([]string, 0, len(c.ExcludeDirs)*2)
	for _, dir := range c.ExcludeDirs {
		args = append(args, "--glob", "!"+dir+"/**")
	}
	return args
}

// GrepExcludeArgs returns one "--exclude-dir=<dir>" flag per excluded directory.
func (c SearchConfig) GrepExcludeArgs() []string {
	args := make([]string, 0, len(c.ExcludeDirs))
	for _, dir := range c.ExcludeDirs {
		args = append(args, "--exclude-dir="+dir)
	}
	return args
}

// FdExcludeArgs returns one "--exclude <dir>" pair per excluded directory.
func (c SearchConfig) FdExcludeArgs() []string {
	args := make([]string, 0, len(c.ExcludeDirs)*2)
	for _, dir := range c.ExcludeDirs {
		args = append(args, "--exclude", dir)
	}
	return args
}

// FindExcludeArgs returns one "-not -path *<dir>*" triple per excluded directory.
func (c SearchConfig) FindExcludeArgs() []string {
	args := make([]string, 0, len(c.ExcludeDirs)*3)
	for _, dir := range c.ExcludeDirs {
		args = append(args, "-not", "-path", "*"+dir+"*")
	}
	return args
}

func configRoot() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		base = "."
	}
	return filepath.Join(base, "filecast")
}

func writeYAML(path, header string, v any) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
