// Package ignore loads the optional ignore file that excludes schemas and objects from a dump.
package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// FileName is the default name of the ignore file
	FileName = ".schemadumpignore"
)

// Config holds glob patterns per object category. A nil *Config ignores nothing.
type Config struct {
	Schemas   []string
	Tables    []string
	Types     []string
	Functions []string
}

// tomlConfig represents the TOML structure of the ignore file
type tomlConfig struct {
	Schemas   patternSection `toml:"schemas,omitempty"`
	Tables    patternSection `toml:"tables,omitempty"`
	Types     patternSection `toml:"types,omitempty"`
	Functions patternSection `toml:"functions,omitempty"`
}

type patternSection struct {
	Patterns []string `toml:"patterns,omitempty"`
}

// Load reads the ignore file at path.
// Returns nil if the file doesn't exist (ignore functionality is optional).
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to access ignore file %s: %w", path, err)
	}

	var raw tomlConfig
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse ignore file %s: %w", path, err)
	}

	return &Config{
		Schemas:   raw.Schemas.Patterns,
		Tables:    raw.Tables.Patterns,
		Types:     raw.Types.Patterns,
		Functions: raw.Functions.Patterns,
	}, nil
}

// ShouldIgnoreSchema checks if a schema should be skipped entirely
func (c *Config) ShouldIgnoreSchema(name string) bool {
	if c == nil {
		return false
	}
	return shouldIgnore(name, c.Schemas)
}

// ShouldIgnoreTable checks if a table should be ignored based on the patterns
func (c *Config) ShouldIgnoreTable(name string) bool {
	if c == nil {
		return false
	}
	return shouldIgnore(name, c.Tables)
}

// ShouldIgnoreType checks if a composite type should be ignored based on the patterns
func (c *Config) ShouldIgnoreType(name string) bool {
	if c == nil {
		return false
	}
	return shouldIgnore(name, c.Types)
}

// ShouldIgnoreFunction checks if a function should be ignored based on the patterns
func (c *Config) ShouldIgnoreFunction(name string) bool {
	if c == nil {
		return false
	}
	return shouldIgnore(name, c.Functions)
}

// shouldIgnore reports whether name matches any pattern.
// Patterns support wildcards (*) and negation (!); a matching negation always wins.
func shouldIgnore(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	matched := false
	for _, pattern := range patterns {
		if strings.HasPrefix(pattern, "!") {
			continue
		}
		if matchPattern(pattern, name) {
			matched = true
			break
		}
	}

	for _, pattern := range patterns {
		if !strings.HasPrefix(pattern, "!") {
			continue
		}
		if matchPattern(pattern[1:], name) {
			return false
		}
	}

	return matched
}

// matchPattern matches a glob-style pattern, falling back to a literal compare for bad patterns
func matchPattern(pattern, name string) bool {
	matched, err := filepath.Match(pattern, name)
	if err != nil {
		return pattern == name
	}
	return matched
}
