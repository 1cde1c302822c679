package schema

import (
	"fmt"
	"regexp"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/stencilcms/stencil/internal/apperr"
)

// ConfigValidationResult is the outcome of ValidateConfig: the decoded,
// normalized configuration plus every structural error found. Validation
// never aborts early; Valid is simply len(Errors) == 0.
type ConfigValidationResult struct {
	Config *Config
	Valid  bool
	Errors []*apperr.ValidationError
}

// Fixed enumerations for top-level properties.
var (
	ssgNames = []string{
		"gatsby", "nextjs", "hugo", "jekyll", "eleventy", "hexo", "vuepress",
		"gridsome", "nuxt", "sapper", "unibit", "custom",
	}
	cmsNames = []string{"git", "contentful", "sanity", "forestry", "netlifycms"}

	// CMS names whose schema lives behind an API; file-based-schema-only
	// properties are forbidden for them.
	apiCMSNames = []string{"contentful", "sanity"}

	fileSchemaOnlyProps = []string{
		"staticDir", "uploadDir", "pagesDir", "dataDir", "excludePages", "assets",
	}

	assetReferenceTypes = []string{"static", "relative"}
)

// Name patterns: start with a letter, alphanumerics/underscores inside, end
// alphanumeric.
var namePatternRe = regexp.MustCompile(`^[a-zA-Z]([a-zA-Z0-9_]*[a-zA-Z0-9])?$`)

// Allowed keys by position, for unknown-key reporting.
var (
	topLevelKeys = keySet(
		"stackbitVersion", "ssgName", "cmsName", "import", "staticDir",
		"uploadDir", "pagesDir", "dataDir", "excludePages", "assets",
		"pageLayoutKey", "objectTypeKey", "models")

	assetsKeys = keySet("referenceType", "staticDir", "uploadDir", "publicPath", "assetsDir")

	commonModelKeys = keySet(
		"type", "label", "description", "extends", "labelField", "variantField",
		"groups", "fieldGroups", "fields", "hideContent")

	modelKeysByType = map[ModelType]map[string]bool{
		ModelObject: {},
		ModelData:   keySet("file", "folder", "match", "exclude", "singleInstance", "isList", "items"),
		ModelPage:   keySet("file", "folder", "match", "exclude", "singleInstance"),
		ModelConfig: keySet("file"),
	}
)

// ValidateConfig validates a raw configuration value against the full
// structural rule set and returns the normalized configuration. Every model
// that has at least one error reported beneath it is flagged Invalid so
// content validation can short-circuit against it.
func ValidateConfig(raw map[string]any) *ConfigValidationResult {
	v := &configValidator{raw: raw}
	v.validateTopLevel()
	cfg := decodeConfig(raw)
	markInvalidModels(cfg, v.errors)
	return &ConfigValidationResult{
		Config: cfg,
		Valid:  len(v.errors) == 0,
		Errors: v.errors,
	}
}

type configValidator struct {
	raw       map[string]any
	models    map[string]any // raw models map, for cross-model reference checks
	hasImport bool
	errors    []*apperr.ValidationError

	// siblingFields is the raw field list currently being validated; style
	// fields check their keys against it.
	siblingFields []any
}

func (v *configValidator) add(code, message string, path apperr.FieldPath) {
	v.errors = append(v.errors, apperr.NewError(code, message, path))
}

func (v *configValidator) addValue(code, message string, path apperr.FieldPath, value any) {
	v.errors = append(v.errors, apperr.NewValueError(code, message, path, value))
}

func (v *configValidator) validateTopLevel() {
	raw := v.raw
	_, v.hasImport = raw["import"]

	if _, ok := raw["stackbitVersion"]; !ok {
		v.add(apperr.CodeRequired, `"stackbitVersion" is required`, apperr.FieldPath{"stackbitVersion"})
	} else if !isString(raw["stackbitVersion"]) {
		v.addValue(apperr.CodeStringBase, `"stackbitVersion" must be a string`, apperr.FieldPath{"stackbitVersion"}, raw["stackbitVersion"])
	}

	v.checkEnumProp(raw, "ssgName", ssgNames)
	v.checkEnumProp(raw, "cmsName", cmsNames)

	if _, ok := raw["assets"]; ok {
		for _, legacy := range []string{"staticDir", "uploadDir"} {
			if _, conflict := raw[legacy]; conflict {
				v.add(apperr.CodeObjectXor,
					fmt.Sprintf(`"assets" is mutually exclusive with %q`, legacy),
					apperr.FieldPath{"assets"})
			}
		}
		v.validateAssets(raw["assets"])
	}

	if cms := asString(raw["cmsName"]); oneOf(cms, apiCMSNames) {
		for _, prop := range fileSchemaOnlyProps {
			if _, ok := raw[prop]; ok {
				v.add(apperr.CodeForbidden,
					fmt.Sprintf("%q is not allowed when cmsName is %q", prop, cms),
					apperr.FieldPath{prop})
			}
		}
	}

	for _, key := range sortedKeys(raw) {
		if !topLevelKeys[key] {
			v.addValue(apperr.CodeUnknown, fmt.Sprintf("%q is not allowed", key),
				apperr.FieldPath{key}, raw[key])
		}
	}

	v.validateModels(raw["models"])
}

func (v *configValidator) checkEnumProp(raw map[string]any, key string, allowed []string) {
	val, ok := raw[key]
	if !ok {
		return
	}
	s, isStr := val.(string)
	if !isStr || !oneOf(s, allowed) {
		v.addValue(apperr.CodeOnly,
			fmt.Sprintf("%q must be one of %v", key, allowed),
			apperr.FieldPath{key}, val)
	}
}

func (v *configValidator) validateAssets(raw any) {
	path := apperr.FieldPath{"assets"}
	assets, ok := asMap(raw)
	if !ok {
		v.addValue(apperr.CodeObjectBase, `"assets" must be an object`, path, raw)
		return
	}
	refType := asString(assets["referenceType"])
	if _, present := assets["referenceType"]; !present {
		v.add(apperr.CodeRequired, `"referenceType" is required`, path.Append("referenceType"))
	} else if !oneOf(refType, assetReferenceTypes) {
		v.addValue(apperr.CodeOnly,
			fmt.Sprintf(`"referenceType" must be one of %v`, assetReferenceTypes),
			path.Append("referenceType"), assets["referenceType"])
	}
	switch refType {
	case "static":
		for _, req := range []string{"staticDir", "publicPath"} {
			if _, ok := assets[req]; !ok {
				v.add(apperr.CodeRequired,
					fmt.Sprintf("%q is required when referenceType is \"static\"", req),
					path.Append(req))
			}
		}
	case "relative":
		if _, ok := assets["assetsDir"]; !ok {
			v.add(apperr.CodeRequired,
				`"assetsDir" is required when referenceType is "relative"`,
				path.Append("assetsDir"))
		}
	}
	for _, key := range sortedKeys(assets) {
		if !assetsKeys[key] {
			v.addValue(apperr.CodeUnknown, fmt.Sprintf("%q is not allowed", key),
				path.Append(key), assets[key])
		}
	}
}

func (v *configValidator) validateModels(raw any) {
	if raw == nil {
		return
	}
	models, ok := asMap(raw)
	if !ok {
		v.addValue(apperr.CodeObjectBase, `"models" must be an object`, apperr.FieldPath{"models"}, raw)
		return
	}
	v.models = models
	for _, name := range sortedKeys(models) {
		path := apperr.FieldPath{"models", name}
		if !matchesName(name) {
			v.addValue(apperr.CodeModelNamePattern,
				fmt.Sprintf("model name %q must start with a letter, may contain only alphanumeric characters and underscores, and must end alphanumeric", name),
				path, name)
		}
		v.validateModel(name, models[name], models, path)
	}
}

func (v *configValidator) validateModel(name string, raw any, allModels map[string]any, path apperr.FieldPath) {
	model, ok := asMap(raw)
	if !ok {
		v.addValue(apperr.CodeObjectBase, fmt.Sprintf("model %q must be an object", name), path, raw)
		return
	}

	typRaw, hasType := model["type"]
	typ := ModelType(asString(typRaw))
	if !hasType {
		v.add(apperr.CodeRequired, `"type" is required`, path.Append("type"))
	} else if !validModelType(typ) {
		v.addValue(apperr.CodeOnly,
			fmt.Sprintf(`"type" must be one of %v`, ModelTypes),
			path.Append("type"), typRaw)
	}

	if _, ok := model["label"]; !ok && !v.hasImport {
		v.add(apperr.CodeRequired, `"label" is required`, path.Append("label"))
	}

	v.validateExtends(model["extends"], allModels, path)
	v.validateFieldGroupsProp(model["fieldGroups"], path)

	groups := decodeFieldGroupsRaw(model["fieldGroups"])
	fields, hasFields := asSlice(model["fields"])
	if hasFields {
		v.validateFieldList(fields, groups, path.Append("fields"))
	}
	v.validateLabelAndVariant(model, fields, path)

	switch typ {
	case ModelData:
		v.validateDataModel(model, groups, path)
	case ModelPage:
		v.validatePageModel(model, path)
	}

	if validModelType(typ) {
		allowed := modelKeysByType[typ]
		for _, key := range sortedKeys(model) {
			if !commonModelKeys[key] && !allowed[key] {
				v.addValue(apperr.CodeUnknown, fmt.Sprintf("%q is not allowed", key),
					path.Append(key), model[key])
			}
		}
	}
}

func (v *configValidator) validateExtends(raw any, allModels map[string]any, path apperr.FieldPath) {
	if raw == nil {
		return
	}
	for i, name := range asStringList(raw) {
		super, ok := asMap(allModels[name])
		if !ok {
			v.addValue(apperr.CodeExtendsNotFound,
				fmt.Sprintf("extended model %q was not found", name),
				path.Append("extends", i), name)
			continue
		}
		if ModelType(asString(super["type"])) != ModelObject {
			v.addValue(apperr.CodeModelWrongType,
				fmt.Sprintf("extended model %q must be of type \"object\"", name),
				path.Append("extends", i), name)
		}
	}
}

func (v *configValidator) validateFieldGroupsProp(raw any, path apperr.FieldPath) {
	if raw == nil {
		return
	}
	list, ok := asSlice(raw)
	if !ok {
		v.addValue(apperr.CodeArrayBase, `"fieldGroups" must be an array`, path.Append("fieldGroups"), raw)
		return
	}
	for i, entry := range list {
		gm, ok := asMap(entry)
		if !ok {
			v.addValue(apperr.CodeObjectBase, "field group must be an object", path.Append("fieldGroups", i), entry)
			continue
		}
		if !isString(gm["name"]) || asString(gm["name"]) == "" {
			v.add(apperr.CodeRequired, `"name" is required`, path.Append("fieldGroups", i, "name"))
		}
	}
}

// validateLabelAndVariant checks a labelField/variantField declaration
// against the immediate field list. Models that extend another model defer
// the existence check to ExtendModels, which re-runs it against the merged
// field set once inherited fields are visible.
func (v *configValidator) validateLabelAndVariant(container map[string]any, fields []any, path apperr.FieldPath) {
	hasExtends := container["extends"] != nil

	if labelField, ok := container["labelField"]; ok {
		name := asString(labelField)
		target := rawFieldByName(fields, name)
		if target == nil {
			if !hasExtends {
				v.addValue(apperr.CodeLabelFieldNotFound,
					fmt.Sprintf("labelField %q does not match any field name", name),
					path.Append("labelField"), labelField)
			}
		} else {
			targetType := asString(target["type"])
			switch FieldType(targetType) {
			case FieldObject, FieldModel, FieldReference, FieldList, FieldStyle:
				v.addValue(apperr.CodeLabelFieldNotSimple,
					fmt.Sprintf("labelField %q must reference a simple field, but field is of type %q", name, targetType),
					path.Append("labelField"), labelField)
			}
		}
	}

	if variantField, ok := container["variantField"]; ok {
		name := asString(variantField)
		target := rawFieldByName(fields, name)
		if target == nil {
			if !hasExtends {
				v.addValue(apperr.CodeVariantFieldNotFound,
					fmt.Sprintf("variantField %q does not match any field name", name),
					path.Append("variantField"), variantField)
			}
		} else if FieldType(asString(target["type"])) != FieldEnum {
			v.addValue(apperr.CodeVariantFieldNotEnum,
				fmt.Sprintf("variantField %q must reference a field of type \"enum\", but field is of type %q", name, asString(target["type"])),
				path.Append("variantField"), variantField)
		}
	}
}

func (v *configValidator) validateDataModel(model map[string]any, groups []FieldGroup, path apperr.FieldPath) {
	_, hasFile := model["file"]
	if hasFile {
		for _, key := range []string{"folder", "match", "exclude"} {
			if _, conflict := model[key]; conflict {
				v.add(apperr.CodeObjectXor,
					fmt.Sprintf(`"file" is mutually exclusive with %q`, key),
					path.Append("file"))
			}
		}
	}

	isList := asBool(model["isList"])
	_, hasItems := model["items"]
	_, hasFields := model["fields"]
	if isList {
		if !hasItems {
			v.add(apperr.CodeIsListItemsRequired,
				`"items" is required when "isList" is true`, path.Append("items"))
		}
		if hasFields {
			v.add(apperr.CodeIsListFieldsForbidden,
				`"fields" is not allowed when "isList" is true`, path.Append("fields"))
		}
		if hasItems {
			v.validateItems(model["items"], groups, path.Append("items"))
		}
	} else if hasItems {
		v.add(apperr.CodeItemsForbidden,
			`"items" is not allowed when "isList" is not true`, path.Append("items"))
	}
}

func (v *configValidator) validatePageModel(model map[string]any, path apperr.FieldPath) {
	_, hasFile := model["file"]
	singleInstance := asBool(model["singleInstance"])
	if hasFile {
		for _, key := range []string{"folder", "match", "exclude"} {
			if _, conflict := model[key]; conflict {
				v.add(apperr.CodeObjectXor,
					fmt.Sprintf(`"file" is mutually exclusive with %q`, key),
					path.Append("file"))
			}
		}
		if !singleInstance {
			v.add(apperr.CodeRequired,
				`"singleInstance" must be true when "file" is set`,
				path.Append("singleInstance"))
		}
	} else if singleInstance {
		v.add(apperr.CodeRequired,
			`"file" is required when "singleInstance" is true`,
			path.Append("file"))
	}
}

// markInvalidModels flags every model whose name appears as the second path
// segment of any reported error.
func markInvalidModels(cfg *Config, errs []*apperr.ValidationError) {
	invalid := map[string]bool{}
	for _, e := range errs {
		if len(e.FieldPath) >= 2 && e.FieldPath[0] == "models" {
			if name, ok := e.FieldPath[1].(string); ok {
				invalid[name] = true
			}
		}
	}
	for _, m := range cfg.Models {
		if invalid[m.Name] {
			m.Invalid = true
		}
	}
}

// Small raw-value helpers shared by validator files.

func matchesName(name string) bool {
	return validation.Validate(name, validation.Match(namePatternRe)) == nil
}

func oneOf(value string, allowed []string) bool {
	if value == "" {
		return false
	}
	return validation.Validate(value, validation.In(toAny(allowed...)...)) == nil
}

func validModelType(t ModelType) bool {
	for _, mt := range ModelTypes {
		if mt == t {
			return true
		}
	}
	return false
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int64, float64:
		return true
	}
	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func keySet(keys ...string) map[string]bool {
	out := make(map[string]bool, len(keys))
	for _, k := range keys {
		out[k] = true
	}
	return out
}

func rawFieldByName(fields []any, name string) map[string]any {
	for _, f := range fields {
		if fm, ok := asMap(f); ok && asString(fm["name"]) == name {
			return fm
		}
	}
	return nil
}

func decodeFieldGroupsRaw(raw any) []FieldGroup {
	list, ok := asSlice(raw)
	if !ok {
		return nil
	}
	var out []FieldGroup
	for _, entry := range list {
		if gm, ok := asMap(entry); ok {
			out = append(out, FieldGroup{Name: asString(gm["name"]), Label: asString(gm["label"])})
		}
	}
	return out
}
