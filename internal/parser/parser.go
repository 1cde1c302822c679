// Package parser turns raw content files into plain values. Supported
// formats: Markdown with YAML frontmatter, YAML, JSON and TOML, selected by
// file extension.
package parser

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/stencilcms/stencil/internal/apperr"
)

// MarkdownContentField is the key the Markdown body is unwrapped into,
// alongside the frontmatter properties.
const MarkdownContentField = "markdown_content"

// Extensions lists every file extension ParseFile understands.
var Extensions = []string{"md", "markdown", "mdx", "yaml", "yml", "json", "toml"}

// ParseFile parses data according to the path's extension and returns the
// file's value as a plain map. Markdown files are unwrapped into
// {...frontmatter, markdown_content: body}.
func ParseFile(path string, data []byte) (map[string]any, error) {
	switch strings.TrimPrefix(filepath.Ext(path), ".") {
	case "md", "markdown", "mdx":
		return parseMarkdown(data)
	case "yaml", "yml":
		var out any
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("parser: parse yaml %s: %w", path, err)
		}
		return wrapValue(out), nil
	case "json":
		var out any
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("parser: parse json %s: %w", path, err)
		}
		return wrapValue(out), nil
	case "toml":
		var out map[string]any
		if err := toml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("parser: parse toml %s: %w", path, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("parser: %s: %w", path, apperr.ErrUnsupportedExtension)
	}
}

// wrapValue lifts a parsed value into a map. Files holding a bare list
// (isList data models) are wrapped into an {items: [...]} shape.
func wrapValue(v any) map[string]any {
	switch val := v.(type) {
	case map[string]any:
		return val
	case []any:
		return map[string]any{"items": val}
	case nil:
		return map[string]any{}
	default:
		return map[string]any{"value": val}
	}
}

// parseMarkdown splits YAML frontmatter (between leading --- delimiters)
// from the Markdown body and merges both into one map. A file without
// frontmatter yields only the markdown_content key.
func parseMarkdown(data []byte) (map[string]any, error) {
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(fm)+1)
	for k, v := range fm {
		out[k] = v
	}
	out[MarkdownContentField] = body
	return out, nil
}

func splitFrontmatter(data []byte) (map[string]any, string, error) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data), nil
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// No closing delimiter, treat everything as body.
		return nil, string(data), nil
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm map[string]any
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		return nil, "", fmt.Errorf("parser: parse frontmatter: %w", err)
	}

	return fm, body, nil
}
