// Package config locates and loads the project schema file as a raw value,
// with environment variable expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/stencilcms/stencil/internal/apperr"
)

// FileNames are the schema file names probed by Find, in priority order.
var FileNames = []string{"stencil.yaml", "stencil.yml", "stencil.json"}

// Find returns the path of the project schema file under dir.
func Find(dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", fmt.Errorf("config: no schema file (%s) under %s: %w",
		strings.Join(FileNames, ", "), dir, apperr.ErrNotFound)
}

// LoadRaw loads the schema file into an untyped map with environment
// variable expansion. Structural validation happens downstream; this layer
// only parses.
func LoadRaw(filename string) (map[string]any, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", filename, err)
	}

	expanded := []byte(os.ExpandEnv(string(data)))

	var raw map[string]any
	switch strings.TrimPrefix(filepath.Ext(filename), ".") {
	case "yaml", "yml":
		if err := yaml.Unmarshal(expanded, &raw); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", filename, err)
		}
	case "json":
		if err := json.Unmarshal(expanded, &raw); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", filename, err)
		}
	default:
		return nil, fmt.Errorf("config: %s: %w", filename, apperr.ErrUnsupportedExtension)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}
