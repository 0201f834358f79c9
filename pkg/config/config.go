// Package config loads merge defaults from an optional .docustream.yaml
// file. Command-line flags always override file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the working directory when no explicit
// config path is given.
const DefaultFileName = ".docustream.yaml"

// Config holds merge defaults a user keeps per project.
type Config struct {
	Format         string   `yaml:"format"`          // txt, pdf or docx
	OutputName     string   `yaml:"output_name"`     // suggested artifact name
	StripAPIKeys   bool     `yaml:"strip_api_keys"`  // redact credential shapes
	RemoveComments bool     `yaml:"remove_comments"` // strip #/// comments
	MaxFileSizeKB  int      `yaml:"max_file_size_kb"`
	MaxWorkers     int      `yaml:"max_workers"`
	SofficeBinary  string   `yaml:"soffice_binary"` // conversion collaborator
	Exclude        []string `yaml:"exclude"`        // extra ignore patterns
}

// Default returns the built-in defaults used when no config file exists.
func Default() Config {
	return Config{
		Format:        "txt",
		OutputName:    "consolidated",
		MaxFileSizeKB: 1024,
	}
}

// Parse decodes and validates a config payload.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads a config file from disk. An empty path means "use the default
// file if present"; a missing default file yields the built-in defaults.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(".", DefaultFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values that cannot be repaired silently.
func (c Config) Validate() error {
	switch strings.ToLower(c.Format) {
	case "", "txt", "text", "pdf", "docx", "word":
	default:
		return fmt.Errorf("config: unknown format %q", c.Format)
	}
	if c.MaxFileSizeKB < 0 {
		return fmt.Errorf("config: max_file_size_kb must not be negative")
	}
	if c.MaxWorkers < 0 {
		return fmt.Errorf("config: max_workers must not be negative")
	}
	return nil
}
