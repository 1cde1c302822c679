package content

import (
	"fmt"
	"sort"

	"github.com/stencilcms/stencil/internal/apperr"
	"github.com/stencilcms/stencil/internal/schema"
)

// Annotate walks a matched file's value in lock-step with its model's field
// structure and attaches __metadata.modelName to every nested object that
// resolves through a polymorphic model field. The input value is never
// mutated: the returned tree is rebuilt node by node. Resolution failures
// are localized to the offending subtree (metadata modelName null plus an
// error string) and never abort the walk.
func Annotate(value map[string]any, model *schema.Model, filePath string, cfg *schema.Config) (map[string]any, []*apperr.ValidationError) {
	a := &annotator{cfg: cfg, filePath: filePath, rootModel: model.Name}
	out := a.annotateObject(value, model.ContentFields(), nil, apperr.FieldPath{model.Name})
	meta := newMetadata(model.Name, "")
	meta[MetaFilePath] = filePath
	out[MetadataKey] = meta
	return out, a.errors
}

type annotator struct {
	cfg       *schema.Config
	filePath  string
	rootModel string
	errors    []*apperr.ValidationError
}

func (a *annotator) addError(code, message string, valuePath apperr.FieldPath, value any) {
	a.errors = append(a.errors, apperr.NewContentError(code, message, valuePath, value, a.rootModel, a.filePath))
}

// annotateObject rebuilds one object, descending into each key through its
// declared field. Declared fields are visited in declaration order, then
// undeclared keys in sorted order, keeping error output deterministic.
func (a *annotator) annotateObject(value map[string]any, fields []*schema.Field, valuePath, modelPath apperr.FieldPath) map[string]any {
	out := make(map[string]any, len(value))
	visited := map[string]bool{}

	for _, f := range fields {
		val, ok := value[f.Name]
		if !ok {
			continue
		}
		visited[f.Name] = true
		out[f.Name] = a.annotateValue(val, f, valuePath.Append(f.Name), modelPath.Append(f.Name))
	}

	var extra []string
	for key := range value {
		if !visited[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		if !a.implicitKey(key) {
			a.addError(apperr.CodeFieldNotMatched,
				fmt.Sprintf("could not match model/field %s to content at %s", modelPath, valuePath.Append(key)),
				valuePath.Append(key), nil)
		}
		out[key] = deepCopy(value[key])
	}
	return out
}

// implicitKey reports keys that legitimately appear in content without a
// declared field: attached metadata, the unwrapped Markdown body, and the
// discriminator keys.
func (a *annotator) implicitKey(key string) bool {
	switch key {
	case MetadataKey, "markdown_content", a.cfg.LayoutKey(), a.cfg.TypeKey():
		return true
	}
	return false
}

func (a *annotator) annotateValue(val any, f *schema.Field, valuePath, modelPath apperr.FieldPath) any {
	switch f.Type {
	case schema.FieldObject:
		obj, ok := val.(map[string]any)
		if !ok {
			return deepCopy(val)
		}
		var fields []*schema.Field
		if f.Object != nil {
			fields = f.Object.Fields
		}
		return a.annotateObject(obj, fields, valuePath, modelPath)

	case schema.FieldModel:
		return a.annotateModelValue(val, f, valuePath, modelPath)

	case schema.FieldList:
		list, ok := val.([]any)
		if !ok {
			return deepCopy(val)
		}
		item := f.ListItems()
		out := make([]any, len(list))
		for i, elem := range list {
			out[i] = a.annotateValue(elem, item, valuePath.Append(i), modelPath.Append("items"))
		}
		return out

	default:
		return deepCopy(val)
	}
}

// annotateModelValue resolves which concrete object model governs the value
// of a model-typed field and annotates the object with it.
func (a *annotator) annotateModelValue(val any, f *schema.Field, valuePath, modelPath apperr.FieldPath) any {
	obj, ok := val.(map[string]any)
	if !ok {
		// Lists of models arrive through list fields; anything else is left
		// for content validation to report.
		return deepCopy(val)
	}

	name, errMsg := a.resolveModelName(obj, f, valuePath, modelPath)
	if errMsg != "" {
		a.addError(apperr.CodeObjectNotMatchedModel, errMsg, valuePath, nil)
		// Best-effort: keep the subtree, no field context to descend with.
		out, _ := deepCopy(obj).(map[string]any)
		out[MetadataKey] = newMetadata("", errMsg)
		return out
	}

	model := a.cfg.ModelByName(name)
	out := a.annotateObject(obj, model.Fields, valuePath, apperr.FieldPath{model.Name})
	out[MetadataKey] = newMetadata(model.Name, "")
	return out
}

// resolveModelName picks the concrete model for an object held by a
// model-typed field. One candidate applies unconditionally; several require
// a discriminator value on the object itself.
func (a *annotator) resolveModelName(obj map[string]any, f *schema.Field, valuePath, modelPath apperr.FieldPath) (string, string) {
	switch len(f.Models) {
	case 0:
		return "", fmt.Sprintf("no 'models' property specified at %s", modelPath)
	case 1:
		name := f.Models[0]
		if a.cfg.ModelByName(name) == nil {
			return "", fmt.Sprintf("model %q referenced at %s was not found", name, modelPath)
		}
		return name, ""
	}

	name, ok := discriminatorValue(obj, a.cfg)
	if !ok {
		return "", fmt.Sprintf("could not match model %s to content at %s: object has no %q or %q key",
			modelPath, valuePath, a.cfg.LayoutKey(), a.cfg.TypeKey())
	}
	for _, candidate := range f.Models {
		if candidate == name && a.cfg.ModelByName(candidate) != nil {
			return candidate, ""
		}
	}
	return "", fmt.Sprintf("could not match model %s to content at %s: %q does not match any of the allowed models %v",
		modelPath, valuePath, name, f.Models)
}

// discriminatorValue reads the page layout key, then the object type key.
func discriminatorValue(obj map[string]any, cfg *schema.Config) (string, bool) {
	if v, ok := obj[cfg.LayoutKey()].(string); ok && v != "" {
		return v, true
	}
	if v, ok := obj[cfg.TypeKey()].(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// deepCopy rebuilds maps and slices so the caller's input stays untouched.
func deepCopy(val any) any {
	switch v := val.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, elem := range v {
			out[k] = deepCopy(elem)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = deepCopy(elem)
		}
		return out
	default:
		return v
	}
}
