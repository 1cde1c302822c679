package schema

import (
	"sort"
)

// decodeConfig converts a raw (already validated) configuration map into the
// typed Config. Decoding is best-effort: values whose shape the validator
// already rejected are skipped rather than re-reported.
func decodeConfig(raw map[string]any) *Config {
	cfg := &Config{
		StackbitVersion: asString(raw["stackbitVersion"]),
		SSGName:         asString(raw["ssgName"]),
		CMSName:         asString(raw["cmsName"]),
		StaticDir:       asString(raw["staticDir"]),
		UploadDir:       asString(raw["uploadDir"]),
		PagesDir:        asString(raw["pagesDir"]),
		DataDir:         asString(raw["dataDir"]),
		PageLayoutKey:   asString(raw["pageLayoutKey"]),
		ObjectTypeKey:   asString(raw["objectTypeKey"]),
		ExcludePages:    asStringList(raw["excludePages"]),
	}
	if _, ok := raw["import"]; ok {
		cfg.Import = true
	}
	if assets, ok := asMap(raw["assets"]); ok {
		cfg.Assets = &Assets{
			ReferenceType: asString(assets["referenceType"]),
			StaticDir:     asString(assets["staticDir"]),
			UploadDir:     asString(assets["uploadDir"]),
			PublicPath:    asString(assets["publicPath"]),
			AssetsDir:     asString(assets["assetsDir"]),
		}
	}
	if models, ok := asMap(raw["models"]); ok {
		names := make([]string, 0, len(models))
		for name := range models {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			modelRaw, ok := asMap(models[name])
			if !ok {
				continue
			}
			cfg.Models = append(cfg.Models, decodeModel(name, modelRaw))
		}
	}
	return cfg
}

func decodeModel(name string, raw map[string]any) *Model {
	m := &Model{
		Name:           name,
		Type:           ModelType(asString(raw["type"])),
		Label:          asString(raw["label"]),
		Description:    asString(raw["description"]),
		LabelField:     asString(raw["labelField"]),
		VariantField:   asString(raw["variantField"]),
		Extends:        asStringList(raw["extends"]),
		Groups:         asStringList(raw["groups"]),
		File:           asString(raw["file"]),
		Folder:         asString(raw["folder"]),
		Match:          asStringList(raw["match"]),
		Exclude:        asStringList(raw["exclude"]),
		SingleInstance: asBool(raw["singleInstance"]),
		HideContent:    asBool(raw["hideContent"]),
		IsList:         asBool(raw["isList"]),
	}
	if groups, ok := asSlice(raw["fieldGroups"]); ok {
		for _, g := range groups {
			if gm, ok := asMap(g); ok {
				m.FieldGroups = append(m.FieldGroups, FieldGroup{
					Name:  asString(gm["name"]),
					Label: asString(gm["label"]),
				})
			}
		}
	}
	if items, ok := asMap(raw["items"]); ok {
		m.Items = decodeField(items)
	}
	m.Fields = decodeFieldList(raw["fields"])
	return m
}

func decodeFieldList(raw any) []*Field {
	list, ok := asSlice(raw)
	if !ok {
		return nil
	}
	out := make([]*Field, 0, len(list))
	for _, entry := range list {
		fm, ok := asMap(entry)
		if !ok {
			continue
		}
		out = append(out, decodeField(fm))
	}
	return out
}

func decodeField(raw map[string]any) *Field {
	f := &Field{
		Type:        FieldType(asString(raw["type"])),
		Name:        asString(raw["name"]),
		Label:       asString(raw["label"]),
		Description: asString(raw["description"]),
		Required:    asBool(raw["required"]),
		Hidden:      asBool(raw["hidden"]),
		Group:       asString(raw["group"]),
		Const:       raw["const"],
		Default:     raw["default"],
	}
	switch f.Type {
	case FieldNumber:
		f.Number = &NumberOpts{
			Subtype: asString(raw["subtype"]),
			Min:     asFloatPtr(raw["min"]),
			Max:     asFloatPtr(raw["max"]),
			Step:    asFloatPtr(raw["step"]),
		}
	case FieldEnum:
		opts := &EnumOpts{ControlType: asString(raw["controlType"])}
		if list, ok := asSlice(raw["options"]); ok {
			for _, o := range list {
				if om, ok := asMap(o); ok {
					opts.Options = append(opts.Options, EnumOption{
						Label:           asString(om["label"]),
						Value:           om["value"],
						Thumbnail:       asString(om["thumbnail"]),
						TextColor:       asString(om["textColor"]),
						BackgroundColor: asString(om["backgroundColor"]),
						BorderColor:     asString(om["borderColor"]),
					})
				} else {
					opts.Options = append(opts.Options, EnumOption{Value: o})
				}
			}
		}
		f.Enum = opts
	case FieldObject:
		f.Object = &ObjectOpts{
			LabelField:   asString(raw["labelField"]),
			VariantField: asString(raw["variantField"]),
			Fields:       decodeFieldList(raw["fields"]),
		}
	case FieldModel, FieldReference:
		f.Models = asStringList(raw["models"])
	case FieldStyle:
		if styles, ok := asMap(raw["styles"]); ok {
			f.Styles = make(map[string]map[string]any, len(styles))
			for key, props := range styles {
				if pm, ok := asMap(props); ok {
					f.Styles[key] = pm
				}
			}
		}
	case FieldList:
		if items, ok := asMap(raw["items"]); ok {
			f.Items = decodeField(items)
		}
	}
	return f
}

// Loose accessors over raw YAML/JSON values. YAML and the JSON decoders in
// use both produce map[string]any for objects.

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asFloatPtr(v any) *float64 {
	switch n := v.(type) {
	case int:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	case float64:
		f := n
		return &f
	}
	return nil
}

// asStringList normalizes a raw value that may be a single string or a list
// of strings into a string slice (match/exclude normalization).
func asStringList(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []any:
		out := make([]string, 0, len(val))
		for _, entry := range val {
			if s, ok := entry.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case []string:
		return append([]string(nil), val...)
	}
	return nil
}
