package content

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/stencilcms/stencil/internal/apperr"
	"github.com/stencilcms/stencil/internal/schema"
)

// DateLayout is the accepted date string format.
const DateLayout = "2006-01-02"

// ValidationResult is the outcome of content validation.
type ValidationResult struct {
	Valid  bool
	Errors []*apperr.ValidationError
}

// Validate checks every modeled content item against its model's field
// schema. Items without a resolved model are skipped, they already produced
// a matcher-level error. Errors accumulate across all items in a stable
// depth-first order.
func Validate(items []*Item, cfg *schema.Config) *ValidationResult {
	reg := NewRegistry(cfg)
	var errs []*apperr.ValidationError
	for _, it := range items {
		if !it.HasModel() {
			continue
		}
		errs = append(errs, reg.ValidateItem(it)...)
	}
	return &ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// Registry resolves per-model validators by name. Model-typed fields can
// reference models that mutually reference each other, so validators are
// never inlined: every cross-model hop is a registry lookup performed lazily
// at validation time, which makes cyclic model graphs terminate (recursion
// follows the finite content tree, not the model graph).
type Registry struct {
	cfg *schema.Config
}

// NewRegistry builds a validator registry over the normalized model array.
func NewRegistry(cfg *schema.Config) *Registry {
	return &Registry{cfg: cfg}
}

// ValidateItem validates one content item against its resolved model. A
// structurally invalid model yields exactly one model.invalid error instead
// of cascading per-field noise.
func (r *Registry) ValidateItem(it *Item) []*apperr.ValidationError {
	model := r.cfg.ModelByName(it.ModelName)
	if model == nil {
		return []*apperr.ValidationError{apperr.NewContentError(
			apperr.CodeModelNotFound,
			fmt.Sprintf("model %q was not found", it.ModelName),
			nil, nil, it.ModelName, it.FilePath)}
	}
	if model.Invalid {
		return []*apperr.ValidationError{apperr.NewContentError(
			apperr.CodeModelInvalid,
			fmt.Sprintf("content of %q cannot be validated, model %q is invalid, fix the model first", it.FilePath, model.Name),
			nil, nil, model.Name, it.FilePath)}
	}
	v := &itemValidator{reg: r, modelName: model.Name, filePath: it.FilePath}
	v.validateObject(it.Data, model.ContentFields(), nil)
	return v.errors
}

type itemValidator struct {
	reg       *Registry
	modelName string
	filePath  string
	errors    []*apperr.ValidationError
}

func (v *itemValidator) add(code, message string, path apperr.FieldPath, value any) {
	v.errors = append(v.errors, apperr.NewContentError(code, message, path, value, v.modelName, v.filePath))
}

// validateObject runs every field's rules in declaration order. Per field
// the rule order is fixed: required, const, base type, constraints.
func (v *itemValidator) validateObject(value map[string]any, fields []*schema.Field, path apperr.FieldPath) {
	for _, f := range fields {
		fieldPath := path.Append(f.Name)
		val, present := value[f.Name]

		// const forces the field required and disallows empty or null.
		required := f.Required || f.Const != nil
		if !present || val == nil || val == "" {
			if required {
				v.add(apperr.CodeRequired,
					fmt.Sprintf("%s is required", f.DisplayLabel()), fieldPath, nil)
			}
			continue
		}

		if f.Const != nil && !equalScalar(val, f.Const) {
			v.add(apperr.CodeOnly,
				fmt.Sprintf("%s must be [%v]", f.DisplayLabel(), f.Const), fieldPath, val)
			continue
		}

		v.validateField(f, val, fieldPath)
	}
}

func (v *itemValidator) validateField(f *schema.Field, val any, path apperr.FieldPath) {
	switch f.Type {
	case schema.FieldString, schema.FieldText, schema.FieldMarkdown, schema.FieldHTML,
		schema.FieldColor, schema.FieldImage, schema.FieldFile, schema.FieldURL,
		schema.FieldSlug:
		if !isStringValue(val) {
			v.add(apperr.CodeStringBase,
				fmt.Sprintf("%s must be a string", f.DisplayLabel()), path, val)
		}

	case schema.FieldDate:
		v.validateDate(f, val, path)

	case schema.FieldBoolean:
		if _, ok := val.(bool); !ok {
			v.add(apperr.CodeBooleanBase,
				fmt.Sprintf("%s must be a boolean", f.DisplayLabel()), path, val)
		}

	case schema.FieldNumber:
		v.validateNumber(f, val, path)

	case schema.FieldEnum:
		v.validateEnum(f, val, path)

	case schema.FieldObject:
		obj, ok := val.(map[string]any)
		if !ok {
			v.add(apperr.CodeObjectBase,
				fmt.Sprintf("%s must be an object", f.DisplayLabel()), path, val)
			return
		}
		if f.Object != nil {
			v.validateObject(obj, f.Object.Fields, path)
		}

	case schema.FieldModel:
		v.validateModelField(f, val, path)

	case schema.FieldReference:
		// TODO: check the referenced file exists and matches an allowed
		// model; out of scope for now, references validate as strings.
		if !isStringValue(val) {
			v.add(apperr.CodeStringBase,
				fmt.Sprintf("%s must be a string", f.DisplayLabel()), path, val)
		}

	case schema.FieldStyle:
		v.validateStyle(f, val, path)

	case schema.FieldList:
		list, ok := val.([]any)
		if !ok {
			v.add(apperr.CodeArrayBase,
				fmt.Sprintf("%s must be an array", f.DisplayLabel()), path, val)
			return
		}
		item := f.ListItems()
		for i, elem := range list {
			if elem == nil {
				continue
			}
			v.validateField(item, elem, path.Append(i))
		}
	}
}

func (v *itemValidator) validateDate(f *schema.Field, val any, path apperr.FieldPath) {
	switch d := val.(type) {
	case time.Time:
		return
	case string:
		if validation.Validate(d, validation.Date(DateLayout)) == nil {
			return
		}
	}
	v.add(apperr.CodeDateBase,
		fmt.Sprintf("%s must be a date in %s format", f.DisplayLabel(), DateLayout), path, val)
}

func (v *itemValidator) validateNumber(f *schema.Field, val any, path apperr.FieldPath) {
	num, ok := toFloat(val)
	if !ok {
		v.add(apperr.CodeNumberBase,
			fmt.Sprintf("%s must be a number", f.DisplayLabel()), path, val)
		return
	}
	opts := f.Number
	if opts == nil {
		return
	}
	if opts.Subtype == schema.NumberInt && num != math.Trunc(num) {
		v.add(apperr.CodeNumberInteger,
			fmt.Sprintf("%s must be an integer", f.DisplayLabel()), path, val)
	}
	if opts.Min != nil && validation.Validate(num, validation.Min(*opts.Min)) != nil {
		v.add(apperr.CodeNumberMin,
			fmt.Sprintf("%s must be greater than or equal to %v", f.DisplayLabel(), *opts.Min), path, val)
	}
	if opts.Max != nil && validation.Validate(num, validation.Max(*opts.Max)) != nil {
		v.add(apperr.CodeNumberMax,
			fmt.Sprintf("%s must be less than or equal to %v", f.DisplayLabel(), *opts.Max), path, val)
	}
	if opts.Step != nil && *opts.Step > 0 {
		base := 0.0
		if opts.Min != nil {
			base = *opts.Min
		}
		if rem := math.Abs(math.Remainder(num-base, *opts.Step)); rem > 1e-9 {
			v.add(apperr.CodeNumberMult,
				fmt.Sprintf("%s must be a multiple of %v", f.DisplayLabel(), *opts.Step), path, val)
		}
	}
}

// validateEnum restricts the value to the literal option values, regardless
// of label wrapping.
func (v *itemValidator) validateEnum(f *schema.Field, val any, path apperr.FieldPath) {
	if f.Enum == nil {
		return
	}
	allowed := make([]any, len(f.Enum.Options))
	for i, opt := range f.Enum.Options {
		allowed[i] = normalizeScalar(opt.Value)
	}
	if validation.Validate(normalizeScalar(val), validation.In(allowed...)) != nil {
		v.add(apperr.CodeOnly,
			fmt.Sprintf("%s must be one of %v", f.DisplayLabel(), allowed), path, val)
	}
}

// validateModelField validates an object held by a model-typed field,
// branching on the model identity the annotator attached. The target
// model's validator is resolved through the registry at this moment, never
// ahead of time.
func (v *itemValidator) validateModelField(f *schema.Field, val any, path apperr.FieldPath) {
	obj, ok := val.(map[string]any)
	if !ok {
		v.add(apperr.CodeObjectBase,
			fmt.Sprintf("%s must be an object", f.DisplayLabel()), path, val)
		return
	}
	modelName, _, _ := ObjectMeta(obj)
	if modelName == "" && len(f.Models) == 1 {
		modelName = f.Models[0]
	}
	if modelName == "" {
		// Unannotated input: fall back to the object's own discriminator.
		modelName, _ = discriminatorValue(obj, v.reg.cfg)
	}
	target := v.reg.cfg.ModelByName(modelName)
	if target == nil || !nameIn(f.Models, modelName) {
		v.add(apperr.CodeOnly,
			fmt.Sprintf("%s must be one of [%s]", f.DisplayLabel(), strings.Join(f.Models, ", ")),
			path, nil)
		return
	}
	if target.Invalid {
		v.add(apperr.CodeModelInvalid,
			fmt.Sprintf("%s cannot be validated, model %q is invalid, fix the model first", f.DisplayLabel(), target.Name),
			path, nil)
		return
	}
	v.validateObject(obj, target.Fields, path)
}

// validateStyle checks each stored style property value against the
// vocabulary and the field's declared allowed tokens.
func (v *itemValidator) validateStyle(f *schema.Field, val any, path apperr.FieldPath) {
	styles, ok := val.(map[string]any)
	if !ok {
		v.add(apperr.CodeObjectBase,
			fmt.Sprintf("%s must be an object", f.DisplayLabel()), path, val)
		return
	}
	for _, key := range sortedMapKeys(styles) {
		if key == MetadataKey {
			continue
		}
		declared, declaredOK := f.Styles[key]
		if !declaredOK {
			v.add(apperr.CodeStyleFieldInvalid,
				fmt.Sprintf("style key %q is not declared on %s", key, f.DisplayLabel()),
				path.Append(key), nil)
			continue
		}
		props, ok := styles[key].(map[string]any)
		if !ok {
			v.add(apperr.CodeObjectBase, "style properties must be an object", path.Append(key), styles[key])
			continue
		}
		for _, prop := range sortedMapKeys(props) {
			if _, allowed := declared[prop]; !allowed || !schema.StylePropExists(prop) {
				v.add(apperr.CodeStyleFieldInvalid,
					fmt.Sprintf("style property %q is not declared for %q", prop, key),
					path.Append(key, prop), props[prop])
				continue
			}
			if !schema.ValidStyleValue(prop, declared[prop], props[prop]) {
				v.add(apperr.CodeStyleValueInvalid,
					fmt.Sprintf("value %v is not allowed for style property %q", props[prop], prop),
					path.Append(key, prop), props[prop])
			}
		}
	}
}

func isStringValue(val any) bool {
	_, ok := val.(string)
	return ok
}

func toFloat(val any) (float64, bool) {
	switch n := val.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// normalizeScalar converts numeric values to float64 so enum comparison is
// insensitive to the decoder's choice of int vs float.
func normalizeScalar(val any) any {
	if f, ok := toFloat(val); ok {
		return f
	}
	return val
}

func equalScalar(a, b any) bool {
	return normalizeScalar(a) == normalizeScalar(b)
}

func nameIn(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func sortedMapKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
