// internal/config/config.go

// Package config loads an optional YAML export profile. Flags always win
// over file values; the profile exists so recurring exports don't need a
// dozen flags each time.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"vcfdump/internal/catalog"
)

type Config struct {
	Species string   `yaml:"species"`
	DB      string   `yaml:"db"`
	Studies []string `yaml:"studies"`
	Files   []string `yaml:"files"`

	OutputDir string `yaml:"output_dir"`

	CatalogURL    string `yaml:"catalog_url"`
	AnnotationURL string `yaml:"annotation_url"`

	WindowSize int64 `yaml:"window_size"`
	Workers    int   `yaml:"workers"`

	Filters map[string][]string `yaml:"filters"`

	// Assembly is a bundled chromosome catalog, keyed by species. Used when
	// no catalog service URL is configured.
	Assembly map[string][]catalog.Chromosome `yaml:"assembly"`
}

// Load reads, defaults and validates a profile.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.WindowSize < 0 {
		return fmt.Errorf("window_size must be >= 0")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}
	for species, chroms := range c.Assembly {
		for _, ch := range chroms {
			if ch.Name == "" {
				return fmt.Errorf("assembly %q has a chromosome without a name", species)
			}
			if ch.Length < 0 {
				return fmt.Errorf("assembly %q chromosome %q has a negative length", species, ch.Name)
			}
		}
	}
	return nil
}
