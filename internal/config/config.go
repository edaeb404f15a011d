// Package config loads the optional YAML defaults file for the CLI.
// Command-line flags always win over config values.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/Zipheir/pandoc-tar/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrNotFound = errors.New("config file not found")
	ErrParse    = errors.New("failed to parse config")
)

// DefaultFileName is looked up in the working directory when no explicit
// config path is given.
const DefaultFileName = ".pandoc-tar.yaml"

// Config holds CLI defaults. Zero values mean "unset".
type Config struct {
	From       string `yaml:"from"`
	To         string `yaml:"to"`
	Wrap       string `yaml:"wrap"` // auto, none, preserve
	Columns    int    `yaml:"columns"`
	Standalone bool   `yaml:"standalone"`
	Template   string `yaml:"template"` // path to a template file
	Workers    int    `yaml:"workers"`
	Verbose    bool   `yaml:"verbose"`
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}
	cfg := &Config{}
	if len(data) == 0 {
		return cfg, nil
	}
	if err := yamlutil.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrParse, path, err)
	}
	return cfg, nil
}

// LoadDefault loads DefaultFileName from the working directory, returning
// an empty Config when the file does not exist.
func LoadDefault() (*Config, error) {
	cfg, err := Load(DefaultFileName)
	if errors.Is(err, ErrNotFound) {
		return &Config{}, nil
	}
	return cfg, err
}
