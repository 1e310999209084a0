package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const settingsHeader = "# filecast settings\n\n"

// DefaultRecentLimit is how many recent accesses feed the search sources.
const DefaultRecentLimit = 10

// Settings holds user preferences that are not search exclusions.
type Settings struct {
	ShowHidden  bool   `yaml:"show_hidden"`
	RecentLimit int    `yaml:"recent_limit"`
	LogLevel    string `yaml:"log_level"`
}

// DefaultSettings returns the settings used on first start.
func DefaultSettings() Settings {
	return Settings{
		RecentLimit: DefaultRecentLimit,
		LogLevel:    "info",
	}
}

// DefaultSettingsPath is <user config dir>/filecast/settings.yaml.
func DefaultSettingsPath() string {
	return filepath.Join(configRoot(), "settings.yaml")
}

// LoadSettings reads path, falling back to (and persisting) the defaults.
// Fields missing from the file keep their default values.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err == nil {
		if uerr := yaml.Unmarshal(data, &settings); uerr == nil {
			if settings.RecentLimit <= 0 {
				settings.RecentLimit = DefaultRecentLimit
			}
			return settings, nil
		}
		settings = DefaultSettings()
	}

	return settings, settings.Save(path)
}

// Save writes settings as YAML.
func (s Settings) Save(path string) error {
	return writeYAML(path, settingsHeader, s)
}
