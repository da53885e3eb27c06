package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type QueryConfig struct {
	SQL    string `yaml:"sql,omitempty" toml:"sql,omitempty"`
	Format string `yaml:"format,omitempty" toml:"format,omitempty"`
}

type LoadConfig struct {
	Table            string `yaml:"table,omitempty" toml:"table,omitempty"`
	WriteDisposition string `yaml:"write_disposition,omitempty" toml:"write_disposition,omitempty"`
	SourceFormat     string `yaml:"source_format,omitempty" toml:"source_format,omitempty"`
}

type ProjectConfig struct {
	Project         string      `yaml:"project,omitempty" toml:"project,omitempty"`
	Location        string      `yaml:"location,omitempty" toml:"location,omitempty"`
	CredentialsFile string      `yaml:"credentials_file,omitempty" toml:"credentials_file,omitempty"`
	Endpoint        string      `yaml:"endpoint,omitempty" toml:"endpoint,omitempty"`
	Timeout         string      `yaml:"timeout,omitempty" toml:"timeout,omitempty"`
	Query           QueryConfig `yaml:"query,omitempty" toml:"query,omitempty"`
	Load            LoadConfig  `yaml:"load,omitempty" toml:"load,omitempty"`
}

const (
	YAMLFileName = "bqkit.yaml"
	TOMLFileName = "bqkit.toml"
)

// Load reads bqkit.yaml, or bqkit.toml when no YAML file exists, from dir.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{YAMLFileName, TOMLFileName} {
		cfg, err := LoadFile(filepath.Join(dir, name))
		if errors.Is(err, ErrConfigNotFound) {
			continue
		}
		return cfg, err
	}
	return nil, ErrConfigNotFound
}

// LoadFile reads a config file, choosing the decoder by extension.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q (expected .yaml or .toml)", filepath.Ext(path))
	}
	return &cfg, nil
}
