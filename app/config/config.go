// Package config loads the site configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Site is the part of the docs site configuration used here.
type Site struct {
	Title       string      `yaml:"title"`
	ThemeConfig ThemeConfig `yaml:"themeConfig"`
}

// ThemeConfig holds theme related settings.
type ThemeConfig struct {
	DisableDarkMode bool `yaml:"disableDarkMode"`
}

// Default returns the configuration used when no file is given.
func Default() Site {
	return Site{Title: "Docs"}
}

// Load reads the site config from path. Empty path or missing file returns defaults.
func Load(path string) (Site, error) {
	site := Default()
	if path == "" {
		return site, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from cli options
	if errors.Is(err, fs.ErrNotExist) {
		return site, nil
	}
	if err != nil {
		return Site{}, fmt.Errorf("failed to read site config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &site); err != nil {
		return Site{}, fmt.Errorf("failed to parse site config %s: %w", path, err)
	}
	if site.Title == "" {
		site.Title = Default().Title
	}
	return site, nil
}
