package schema

import (
	"fmt"

	"github.com/stencilcms/stencil/internal/apperr"
)

// Allowed field keys by type, for unknown-key reporting.
var (
	commonFieldKeys = keySet(
		"type", "name", "label", "description", "required", "hidden", "group",
		"const", "default")

	fieldKeysByType = map[FieldType]map[string]bool{
		FieldNumber:    keySet("subtype", "min", "max", "step"),
		FieldEnum:      keySet("options", "controlType"),
		FieldObject:    keySet("fields", "labelField", "variantField"),
		FieldModel:     keySet("models", "groups"),
		FieldReference: keySet("models", "groups"),
		FieldStyle:     keySet("styles"),
		FieldList:      keySet("items"),
	}
)

func (v *configValidator) validateFieldList(fields []any, groups []FieldGroup, path apperr.FieldPath) {
	prevSiblings := v.siblingFields
	v.siblingFields = fields
	defer func() { v.siblingFields = prevSiblings }()

	seen := map[string]bool{}
	for i, raw := range fields {
		field, ok := asMap(raw)
		if !ok {
			v.addValue(apperr.CodeObjectBase, "field must be an object", path.Append(i), raw)
			continue
		}
		name := asString(field["name"])
		if name != "" {
			if seen[name] {
				v.addValue(apperr.CodeFieldNameUnique,
					fmt.Sprintf("field name %q is not unique within its fields list", name),
					path.Append(i, "name"), name)
			}
			seen[name] = true
		}
		v.validateField(field, groups, path.Append(i), true)
	}
}

// validateField checks one field spec. named is false for list item specs,
// which carry no name of their own.
func (v *configValidator) validateField(field map[string]any, groups []FieldGroup, path apperr.FieldPath, named bool) {
	if named {
		name, hasName := field["name"]
		if !hasName {
			v.add(apperr.CodeRequired, `"name" is required`, path.Append("name"))
		} else if !isString(name) || !matchesName(asString(name)) {
			v.addValue(apperr.CodeFieldNamePattern,
				fmt.Sprintf("field name %q must start with a letter, may contain only alphanumeric characters and underscores, and must end alphanumeric", name),
				path.Append("name"), name)
		}
	}

	typRaw, hasType := field["type"]
	typ := FieldType(asString(typRaw))
	if !hasType {
		v.add(apperr.CodeRequired, `"type" is required`, path.Append("type"))
		return
	}
	if !validFieldType(typ) {
		v.addValue(apperr.CodeOnly,
			fmt.Sprintf(`"type" must be one of %v`, FieldTypes),
			path.Append("type"), typRaw)
		return
	}

	_, hasConst := field["const"]
	_, hasDefault := field["default"]
	if hasConst && hasDefault {
		v.add(apperr.CodeConstDefault, `"const" is mutually exclusive with "default"`, path.Append("const"))
	}

	if group, ok := field["group"]; ok {
		if !hasFieldGroup(groups, asString(group)) {
			v.addValue(apperr.CodeGroupNotFound,
				fmt.Sprintf("field group %q does not match any group name of the nearest fieldGroups", asString(group)),
				path.Append("group"), group)
		}
	}

	switch typ {
	case FieldNumber:
		v.validateNumberField(field, path)
	case FieldEnum:
		v.validateEnumField(field, path)
	case FieldObject:
		v.validateObjectField(field, groups, path)
	case FieldModel:
		v.validateModelsField(field, path, []ModelType{ModelObject})
	case FieldReference:
		v.validateModelsField(field, path, []ModelType{ModelPage, ModelData})
	case FieldStyle:
		v.validateStyleField(field, path)
	case FieldList:
		v.validateItems(field["items"], groups, path.Append("items"))
	}

	allowed := fieldKeysByType[typ]
	for _, key := range sortedKeys(field) {
		if !commonFieldKeys[key] && !allowed[key] {
			v.addValue(apperr.CodeUnknown, fmt.Sprintf("%q is not allowed", key),
				path.Append(key), field[key])
		}
	}
}

// validateItems checks a list item spec: a full field spec of any non-list
// type, without a name. A nil spec is fine, items default to strings.
func (v *configValidator) validateItems(raw any, groups []FieldGroup, path apperr.FieldPath) {
	if raw == nil {
		return
	}
	items, ok := asMap(raw)
	if !ok {
		v.addValue(apperr.CodeObjectBase, `"items" must be an object`, path, raw)
		return
	}
	if FieldType(asString(items["type"])) == FieldList {
		v.addValue(apperr.CodeForbidden, `"items" must not be of type "list"`, path.Append("type"), items["type"])
		return
	}
	v.validateField(items, groups, path, false)
}

func (v *configValidator) validateNumberField(field map[string]any, path apperr.FieldPath) {
	if subtype, ok := field["subtype"]; ok {
		s := asString(subtype)
		if s != NumberInt && s != NumberFloat {
			v.addValue(apperr.CodeOnly,
				fmt.Sprintf(`"subtype" must be one of [%s %s]`, NumberInt, NumberFloat),
				path.Append("subtype"), subtype)
		}
	}
	for _, key := range []string{"min", "max", "step"} {
		if val, ok := field[key]; ok && !isNumber(val) {
			v.addValue(apperr.CodeNumberBase,
				fmt.Sprintf("%q must be a number", key), path.Append(key), val)
		}
	}
}

func (v *configValidator) validateEnumField(field map[string]any, path apperr.FieldPath) {
	raw, ok := field["options"]
	if !ok {
		v.add(apperr.CodeRequired, `"options" is required`, path.Append("options"))
		return
	}
	options, ok := asSlice(raw)
	if !ok {
		v.addValue(apperr.CodeArrayBase, `"options" must be an array`, path.Append("options"), raw)
		return
	}
	if len(options) == 0 {
		v.add(apperr.CodeEnumOptions, `"options" must contain at least 1 option`, path.Append("options"))
		return
	}

	switch asString(field["controlType"]) {
	case ControlThumbnails:
		for i, opt := range options {
			om, isMap := asMap(opt)
			if !isMap {
				v.addValue(apperr.CodeEnumOptions,
					"option must be an object with a thumbnail when controlType is \"thumbnails\"",
					path.Append("options", i), opt)
				continue
			}
			if !isString(om["thumbnail"]) {
				v.add(apperr.CodeRequired, `"thumbnail" is required`,
					path.Append("options", i, "thumbnail"))
			}
		}
	case ControlPalette:
		for i, opt := range options {
			om, isMap := asMap(opt)
			if !isMap {
				v.addValue(apperr.CodeEnumOptions,
					"option must be an object when controlType is \"palette\"",
					path.Append("options", i), opt)
				continue
			}
			for _, key := range []string{"textColor", "backgroundColor", "borderColor"} {
				if val, ok := om[key]; ok && !isString(val) {
					v.addValue(apperr.CodeStringBase,
						fmt.Sprintf("%q must be a string", key),
						path.Append("options", i, key), val)
				}
			}
		}
	default:
		// Options must wholly match one alternative: all scalars, or all
		// label/value objects.
		_, firstIsMap := asMap(options[0])
		for i, opt := range options {
			_, optIsMap := asMap(opt)
			if optIsMap != firstIsMap {
				v.addValue(apperr.CodeEnumOptions,
					"options must be either all strings/numbers or all label/value objects",
					path.Append("options", i), opt)
				continue
			}
			if optIsMap {
				om, _ := asMap(opt)
				if _, ok := om["value"]; !ok {
					v.add(apperr.CodeRequired, `"value" is required`, path.Append("options", i, "value"))
				}
			} else if !isString(opt) && !isNumber(opt) {
				v.addValue(apperr.CodeEnumOptions,
					"option must be a string or a number", path.Append("options", i), opt)
			}
		}
	}
}

func (v *configValidator) validateObjectField(field map[string]any, groups []FieldGroup, path apperr.FieldPath) {
	if _, ok := field["options"]; ok {
		v.add(apperr.CodeForbidden, `"options" is not allowed on fields of type "object"`, path.Append("options"))
	}
	raw, ok := field["fields"]
	if !ok {
		v.add(apperr.CodeRequired, `"fields" is required`, path.Append("fields"))
		return
	}
	fields, ok := asSlice(raw)
	if !ok {
		v.addValue(apperr.CodeArrayBase, `"fields" must be an array`, path.Append("fields"), raw)
		return
	}
	v.validateFieldList(fields, groups, path.Append("fields"))
	v.validateLabelAndVariant(field, fields, path)
}

func (v *configValidator) validateModelsField(field map[string]any, path apperr.FieldPath, categories []ModelType) {
	raw, hasModels := field["models"]
	_, hasGroups := field["groups"]
	if !hasModels {
		if !hasGroups {
			v.add(apperr.CodeRequired, `"models" is required`, path.Append("models"))
		}
		return
	}
	names := asStringList(raw)
	if len(names) == 0 && !hasGroups {
		v.add(apperr.CodeRequired, `"models" must contain at least 1 model name`, path.Append("models"))
		return
	}
	for i, name := range names {
		target, ok := asMap(v.models[name])
		if !ok {
			v.addValue(apperr.CodeModelNotFound,
				fmt.Sprintf("model %q was not found", name),
				path.Append("models", i), name)
			continue
		}
		targetType := ModelType(asString(target["type"]))
		if !containsModelType(categories, targetType) {
			v.addValue(apperr.CodeModelWrongType,
				fmt.Sprintf("model %q must be of type %v, but is of type %q", name, categories, targetType),
				path.Append("models", i), name)
		}
	}
}

func (v *configValidator) validateStyleField(field map[string]any, path apperr.FieldPath) {
	raw, ok := field["styles"]
	if !ok {
		v.add(apperr.CodeRequired, `"styles" is required`, path.Append("styles"))
		return
	}
	styles, ok := asMap(raw)
	if !ok {
		v.addValue(apperr.CodeObjectBase, `"styles" must be an object`, path.Append("styles"), raw)
		return
	}
	for _, key := range sortedKeys(styles) {
		if key != StyleSelfKey && rawFieldByName(v.siblingFields, key) == nil {
			v.addValue(apperr.CodeStyleFieldInvalid,
				fmt.Sprintf("style key %q must be a sibling field name or %q", key, StyleSelfKey),
				path.Append("styles", key), key)
		}
		props, ok := asMap(styles[key])
		if !ok {
			v.addValue(apperr.CodeObjectBase, "style properties must be an object",
				path.Append("styles", key), styles[key])
			continue
		}
		for _, prop := range sortedKeys(props) {
			if !StylePropExists(prop) {
				v.addValue(apperr.CodeStyleFieldInvalid,
					fmt.Sprintf("style property %q is not supported", prop),
					path.Append("styles", key, prop), prop)
				continue
			}
			v.validateStyleTokens(prop, props[prop], path.Append("styles", key, prop))
		}
	}
}

func (v *configValidator) validateStyleTokens(prop string, declared any, path apperr.FieldPath) {
	switch d := declared.(type) {
	case string:
		if !ValidStyleToken(prop, d) {
			v.addValue(apperr.CodeStyleValueInvalid,
				fmt.Sprintf("value %q is not allowed for style property %q", d, prop),
				path, d)
		}
	case []any:
		for i, token := range d {
			if !ValidStyleToken(prop, token) {
				v.addValue(apperr.CodeStyleValueInvalid,
					fmt.Sprintf("value %v is not allowed for style property %q", token, prop),
					path.Append(i), token)
			}
		}
	default:
		v.addValue(apperr.CodeStyleValueInvalid,
			fmt.Sprintf("style property %q must be a token or an array of tokens", prop),
			path, declared)
	}
}

func validFieldType(t FieldType) bool {
	for _, ft := range FieldTypes {
		if ft == t {
			return true
		}
	}
	return false
}

func containsModelType(types []ModelType, t ModelType) bool {
	for _, mt := range types {
		if mt == t {
			return true
		}
	}
	return false
}
