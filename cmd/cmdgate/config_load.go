package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// configBaseName is the file name stem searched for in standard locations.
// Both cmdgate.toml and cmdgate.yaml (or .yml) are accepted.
const configBaseName = "cmdgate"

var configExtensions = []string{".toml", ".yaml", ".yml"}

// LoadConfig reads, parses, and validates a policy file. The decoder is
// chosen by file extension: .yaml/.yml use YAML, everything else TOML.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigRead, path, err)
	}

	cfg, err := parseConfig(string(data), strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	cfg.Path = path
	return cfg, nil
}

// parseConfig parses and validates policy data in the given format.
func parseConfig(data, ext string) (*Config, error) {
	var cfg Config
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(data), &cfg); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
		}
	default:
		if err := toml.Unmarshal([]byte(data), &cfg); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindConfig resolves the policy file to use, in precedence order:
// explicit path, CMDGATE_CONFIG env var, project config, global config.
// Returns "" when no policy file exists anywhere.
func FindConfig(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}
	if envPath := os.Getenv("CMDGATE_CONFIG"); envPath != "" {
		return envPath
	}
	if root := findProjectRoot(); root != "" {
		if p := findConfigIn(filepath.Join(root, ".config")); p != "" {
			return p
		}
	}
	return findGlobalConfig()
}

// findConfigIn looks for cmdgate.{toml,yaml,yml} in a directory.
func findConfigIn(dir string) string {
	for _, ext := range configExtensions {
		p := filepath.Join(dir, configBaseName+ext)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// findGlobalConfig returns the user-level policy file, if any.
func findGlobalConfig() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return findConfigIn(filepath.Join(home, ".config"))
}

// findProjectRoot walks up from the working directory looking for a
// directory that contains .git or a .config policy file.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		if findConfigIn(filepath.Join(dir, ".config")) != "" {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
