package content

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/stencilcms/stencil/internal/apperr"
	"github.com/stencilcms/stencil/internal/schema"
)

// MatchFile determines the single model governing a loaded file. filePath is
// relative to the content directory the candidates describe. A file matches
// a model when its discriminator value matches OR its path matches the
// model's glob/file rule; exactly one matching candidate is success. There
// is no tie-break: several matches are always an error.
func MatchFile(candidates []*schema.Model, filePath string, data map[string]any, cfg *schema.Config) (*schema.Model, *apperr.ValidationError) {
	var matched []*schema.Model
	for _, m := range candidates {
		if modelMatchesFile(m, filePath, data, cfg) {
			matched = append(matched, m)
		}
	}
	switch len(matched) {
	case 1:
		return matched[0], nil
	case 0:
		return nil, apperr.NewContentError(
			apperr.CodeFileNotMatchedModel,
			fmt.Sprintf("file %q does not match any model", filePath),
			nil, nil, "", filePath)
	default:
		names := make([]string, len(matched))
		for i, m := range matched {
			names[i] = m.Name
		}
		return nil, apperr.NewContentError(
			apperr.CodeFileMatchedMultipleModels,
			fmt.Sprintf("file %q matches several models: %s", filePath, strings.Join(names, ", ")),
			nil, nil, "", filePath)
	}
}

func modelMatchesFile(m *schema.Model, filePath string, data map[string]any, cfg *schema.Config) bool {
	if matchesDiscriminator(m, data, cfg) {
		return true
	}
	return matchesPathRule(m, filePath)
}

// matchesDiscriminator compares the file's discriminator value against the
// model's name. Page models read the page layout key; the legacy config
// model reads the object type key, falling back to a "name" key.
func matchesDiscriminator(m *schema.Model, data map[string]any, cfg *schema.Config) bool {
	switch m.Type {
	case schema.ModelPage:
		value, ok := data[cfg.LayoutKey()].(string)
		return ok && value == m.Name
	case schema.ModelConfig:
		if value, ok := data[cfg.TypeKey()].(string); ok && value != "" {
			return value == m.Name
		}
		value, ok := data["name"].(string)
		return ok && value == m.Name
	}
	return false
}

// matchesPathRule tests the file path against the model's file path or
// folder/match/exclude globs. A model with no path rule matches no path.
func matchesPathRule(m *schema.Model, filePath string) bool {
	if m.File != "" {
		return path.Clean(filePath) == path.Clean(m.File)
	}
	if m.Folder == "" && len(m.Match) == 0 && len(m.Exclude) == 0 {
		return false
	}

	rel := filePath
	if m.Folder != "" {
		folder := strings.Trim(m.Folder, "/")
		if rel != folder && !strings.HasPrefix(rel, folder+"/") {
			return false
		}
		rel = strings.TrimPrefix(strings.TrimPrefix(rel, folder), "/")
	}

	match := m.Match
	if len(match) == 0 {
		match = []string{"**/*"}
	}
	matched := false
	for _, g := range match {
		if ok, err := doublestar.Match(g, rel); err == nil && ok {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	for _, g := range m.Exclude {
		if ok, err := doublestar.Match(g, rel); err == nil && ok {
			return false
		}
	}
	return true
}
