package content

import (
	"strings"
	"testing"

	"github.com/stencilcms/stencil/internal/apperr"
	"github.com/stencilcms/stencil/internal/schema"
)

func floatPtr(v float64) *float64 { return &v }

func singleFieldConfig(f *schema.Field) *schema.Config {
	return &schema.Config{
		Models: []*schema.Model{
			{Name: "thing", Type: schema.ModelObject, Fields: []*schema.Field{f}},
		},
	}
}

func validateThing(cfg *schema.Config, data map[string]any) []*apperr.ValidationError {
	reg := NewRegistry(cfg)
	return reg.ValidateItem(&Item{FilePath: "data/thing.yaml", ModelName: "thing", Data: data})
}

func TestValidateItem_RoundTrip(t *testing.T) {
	cfg := singleFieldConfig(&schema.Field{Type: schema.FieldString, Name: "s"})

	if errs := validateThing(cfg, map[string]any{"s": "hello"}); len(errs) != 0 {
		t.Fatalf("valid content produced errors: %v", errs)
	}

	errs := validateThing(cfg, map[string]any{"s": 42})
	if len(errs) != 1 {
		t.Fatalf("errors = %v, want exactly one", errs)
	}
	if errs[0].Type != apperr.CodeStringBase {
		t.Errorf("type = %s, want %s", errs[0].Type, apperr.CodeStringBase)
	}
	if errs[0].FieldPath.String() != "s" {
		t.Errorf("fieldPath = %q, want s", errs[0].FieldPath)
	}
}

func TestValidateItem_Required(t *testing.T) {
	cfg := singleFieldConfig(&schema.Field{Type: schema.FieldString, Name: "title", Required: true})

	for _, data := range []map[string]any{
		{},
		{"title": nil},
		{"title": ""},
	} {
		errs := validateThing(cfg, data)
		if len(errs) != 1 || errs[0].Type != apperr.CodeRequired {
			t.Errorf("data %v: errors = %v, want one any.required", data, errs)
		}
	}
}

func TestValidateItem_Const(t *testing.T) {
	cfg := singleFieldConfig(&schema.Field{Type: schema.FieldString, Name: "kind", Const: "banner"})

	if errs := validateThing(cfg, map[string]any{"kind": "banner"}); len(errs) != 0 {
		t.Fatalf("matching const produced errors: %v", errs)
	}
	// const makes the field required even without the flag.
	if errs := validateThing(cfg, map[string]any{}); len(errs) != 1 || errs[0].Type != apperr.CodeRequired {
		t.Errorf("missing const field: errors = %v, want one any.required", errs)
	}
	errs := validateThing(cfg, map[string]any{"kind": "hero"})
	if len(errs) != 1 || errs[0].Type != apperr.CodeOnly {
		t.Fatalf("errors = %v, want one any.only", errs)
	}
}

func TestValidateItem_Number(t *testing.T) {
	cfg := singleFieldConfig(&schema.Field{
		Type: schema.FieldNumber, Name: "n",
		Number: &schema.NumberOpts{
			Subtype: schema.NumberInt,
			Min:     floatPtr(0),
			Max:     floatPtr(10),
		},
	})

	if errs := validateThing(cfg, map[string]any{"n": 5}); len(errs) != 0 {
		t.Fatalf("valid number produced errors: %v", errs)
	}
	cases := []struct {
		val  any
		code string
	}{
		{"five", apperr.CodeNumberBase},
		{2.5, apperr.CodeNumberInteger},
		{-1, apperr.CodeNumberMin},
		{11, apperr.CodeNumberMax},
	}
	for _, c := range cases {
		errs := validateThing(cfg, map[string]any{"n": c.val})
		if len(errs) != 1 || errs[0].Type != c.code {
			t.Errorf("value %v: errors = %v, want one %s", c.val, errs, c.code)
		}
	}
}

func TestValidateItem_NumberStep(t *testing.T) {
	cfg := singleFieldConfig(&schema.Field{
		Type: schema.FieldNumber, Name: "n",
		Number: &schema.NumberOpts{Min: floatPtr(1), Step: floatPtr(0.5)},
	})

	if errs := validateThing(cfg, map[string]any{"n": 2.5}); len(errs) != 0 {
		t.Fatalf("on-step value produced errors: %v", errs)
	}
	errs := validateThing(cfg, map[string]any{"n": 2.3})
	if len(errs) != 1 || errs[0].Type != apperr.CodeNumberMult {
		t.Errorf("errors = %v, want one number.multiple", errs)
	}
}

func TestValidateItem_Enum(t *testing.T) {
	cfg := singleFieldConfig(&schema.Field{
		Type: schema.FieldEnum, Name: "align",
		Enum: &schema.EnumOpts{Options: []schema.EnumOption{
			{Value: "left"}, {Value: "right"},
		}},
	})

	if errs := validateThing(cfg, map[string]any{"align": "left"}); len(errs) != 0 {
		t.Fatalf("valid enum value produced errors: %v", errs)
	}
	errs := validateThing(cfg, map[string]any{"align": "middle"})
	if len(errs) != 1 || errs[0].Type != apperr.CodeOnly {
		t.Errorf("errors = %v, want one any.only", errs)
	}
}

func TestValidateItem_EnumNumericNormalization(t *testing.T) {
	// YAML decodes 2 as int, JSON as float64; both must hit the same option.
	cfg := singleFieldConfig(&schema.Field{
		Type: schema.FieldEnum, Name: "cols",
		Enum: &schema.EnumOpts{Options: []schema.EnumOption{{Value: 2}, {Value: 3}}},
	})
	if errs := validateThing(cfg, map[string]any{"cols": 2.0}); len(errs) != 0 {
		t.Errorf("float value against int option produced errors: %v", errs)
	}
	if errs := validateThing(cfg, map[string]any{"cols": 2}); len(errs) != 0 {
		t.Errorf("int value against int option produced errors: %v", errs)
	}
}

func TestValidateItem_Date(t *testing.T) {
	cfg := singleFieldConfig(&schema.Field{Type: schema.FieldDate, Name: "published"})

	if errs := validateThing(cfg, map[string]any{"published": "2026-09-01"}); len(errs) != 0 {
		t.Fatalf("valid date produced errors: %v", errs)
	}
	errs := validateThing(cfg, map[string]any{"published": "01/09/2026"})
	if len(errs) != 1 || errs[0].Type != apperr.CodeDateBase {
		t.Errorf("errors = %v, want one date.base", errs)
	}
}

func TestValidateItem_Boolean(t *testing.T) {
	cfg := singleFieldConfig(&schema.Field{Type: schema.FieldBoolean, Name: "draft"})
	errs := validateThing(cfg, map[string]any{"draft": "yes"})
	if len(errs) != 1 || errs[0].Type != apperr.CodeBooleanBase {
		t.Errorf("errors = %v, want one boolean.base", errs)
	}
}

func TestValidateItem_ListElements(t *testing.T) {
	cfg := singleFieldConfig(&schema.Field{
		Type: schema.FieldList, Name: "tags",
		Items: &schema.Field{Type: schema.FieldString},
	})

	errs := validateThing(cfg, map[string]any{"tags": []any{"go", 7, "cms"}})
	if len(errs) != 1 {
		t.Fatalf("errors = %v, want exactly one", errs)
	}
	if errs[0].FieldPath.String() != "tags.1" {
		t.Errorf("fieldPath = %q, want tags.1", errs[0].FieldPath)
	}
}

func TestValidateItem_NestedObject(t *testing.T) {
	cfg := singleFieldConfig(&schema.Field{
		Type: schema.FieldObject, Name: "seo",
		Object: &schema.ObjectOpts{Fields: []*schema.Field{
			{Type: schema.FieldString, Name: "description", Required: true},
		}},
	})

	errs := validateThing(cfg, map[string]any{"seo": map[string]any{}})
	if len(errs) != 1 || errs[0].Type != apperr.CodeRequired {
		t.Fatalf("errors = %v, want one any.required", errs)
	}
	if errs[0].FieldPath.String() != "seo.description" {
		t.Errorf("fieldPath = %q, want seo.description", errs[0].FieldPath)
	}
}

func TestValidateItem_ModelField(t *testing.T) {
	cfg := &schema.Config{
		Models: []*schema.Model{
			{
				Name: "thing", Type: schema.ModelObject,
				Fields: []*schema.Field{
					{Type: schema.FieldModel, Name: "hero", Models: []string{"hero"}},
				},
			},
			{
				Name: "hero", Type: schema.ModelObject,
				Fields: []*schema.Field{
					{Type: schema.FieldString, Name: "heading", Required: true},
				},
			},
		},
	}

	// Annotated nested object validates against the target model.
	errs := validateThing(cfg, map[string]any{
		"hero": map[string]any{
			MetadataKey: map[string]any{MetaModelName: "hero"},
		},
	})
	if len(errs) != 1 || errs[0].Type != apperr.CodeRequired {
		t.Fatalf("errors = %v, want one any.required for heading", errs)
	}
	if errs[0].FieldPath.String() != "hero.heading" {
		t.Errorf("fieldPath = %q, want hero.heading", errs[0].FieldPath)
	}

	// Unannotated input falls back to the single candidate.
	errs = validateThing(cfg, map[string]any{
		"hero": map[string]any{"heading": "hi"},
	})
	if len(errs) != 0 {
		t.Errorf("single-candidate fallback produced errors: %v", errs)
	}
}

func TestValidateItem_ModelFieldWrongModel(t *testing.T) {
	cfg := &schema.Config{
		Models: []*schema.Model{
			{
				Name: "thing", Type: schema.ModelObject,
				Fields: []*schema.Field{
					{Type: schema.FieldModel, Name: "block", Models: []string{"quote", "cta"}},
				},
			},
			{Name: "quote", Type: schema.ModelObject},
			{Name: "cta", Type: schema.ModelObject},
			{Name: "banner", Type: schema.ModelObject},
		},
	}

	errs := validateThing(cfg, map[string]any{
		"block": map[string]any{
			MetadataKey: map[string]any{MetaModelName: "banner"},
		},
	})
	if len(errs) != 1 || errs[0].Type != apperr.CodeOnly {
		t.Fatalf("errors = %v, want one any.only", errs)
	}
	if !strings.Contains(errs[0].Message, "quote, cta") {
		t.Errorf("message %q should list the allowed models", errs[0].Message)
	}
}

func TestValidateItem_ModelFieldInvalidTarget(t *testing.T) {
	cfg := &schema.Config{
		Models: []*schema.Model{
			{
				Name: "thing", Type: schema.ModelObject,
				Fields: []*schema.Field{
					{Type: schema.FieldModel, Name: "hero", Models: []string{"hero"}},
				},
			},
			{Name: "hero", Type: schema.ModelObject, Invalid: true},
		},
	}

	errs := validateThing(cfg, map[string]any{"hero": map[string]any{}})
	if len(errs) != 1 || errs[0].Type != apperr.CodeModelInvalid {
		t.Fatalf("errors = %v, want one model.invalid", errs)
	}
}

func TestValidateItem_InvalidModelSingleError(t *testing.T) {
	cfg := &schema.Config{
		Models: []*schema.Model{
			{
				Name: "broken", Type: schema.ModelData, Invalid: true,
				Fields: []*schema.Field{
					{Type: schema.FieldString, Name: "a", Required: true},
					{Type: schema.FieldString, Name: "b", Required: true},
				},
			},
		},
	}
	reg := NewRegistry(cfg)
	errs := reg.ValidateItem(&Item{FilePath: "data/x.yaml", ModelName: "broken", Data: map[string]any{}})
	if len(errs) != 1 || errs[0].Type != apperr.CodeModelInvalid {
		t.Fatalf("errors = %v, want exactly one model.invalid and no per-field noise", errs)
	}
}

func TestValidateItem_ModelNotFound(t *testing.T) {
	reg := NewRegistry(&schema.Config{})
	errs := reg.ValidateItem(&Item{FilePath: "data/x.yaml", ModelName: "ghost", Data: map[string]any{}})
	if len(errs) != 1 || errs[0].Type != apperr.CodeModelNotFound {
		t.Fatalf("errors = %v, want one model.not.found", errs)
	}
}

func TestValidateItem_RecursiveModelGraph(t *testing.T) {
	// node references itself through a model field; validation follows the
	// finite content tree, so a cyclic model graph terminates.
	cfg := &schema.Config{
		Models: []*schema.Model{
			{
				Name: "node", Type: schema.ModelObject,
				Fields: []*schema.Field{
					{Type: schema.FieldString, Name: "label", Required: true},
					{Type: schema.FieldModel, Name: "child", Models: []string{"node"}},
				},
			},
		},
	}
	reg := NewRegistry(cfg)
	errs := reg.ValidateItem(&Item{FilePath: "data/tree.yaml", ModelName: "node", Data: map[string]any{
		"label": "root",
		"child": map[string]any{
			"label": "mid",
			"child": map[string]any{},
		},
	}})
	if len(errs) != 1 || errs[0].FieldPath.String() != "child.child.label" {
		t.Fatalf("errors = %v, want one required error at child.child.label", errs)
	}
}

func TestValidateItem_IsListData(t *testing.T) {
	cfg := &schema.Config{
		Models: []*schema.Model{
			{
				Name: "tags", Type: schema.ModelData, IsList: true,
				Items: &schema.Field{Type: schema.FieldString},
			},
		},
	}
	reg := NewRegistry(cfg)

	errs := reg.ValidateItem(&Item{FilePath: "data/tags.yaml", ModelName: "tags", Data: map[string]any{
		"items": []any{"go", "cms"},
	}})
	if len(errs) != 0 {
		t.Fatalf("valid list data produced errors: %v", errs)
	}

	errs = reg.ValidateItem(&Item{FilePath: "data/tags.yaml", ModelName: "tags", Data: map[string]any{}})
	if len(errs) != 1 || errs[0].Type != apperr.CodeRequired {
		t.Errorf("missing items: errors = %v, want one any.required", errs)
	}
}

func TestValidateItem_Style(t *testing.T) {
	cfg := singleFieldConfig(&schema.Field{
		Type: schema.FieldString, Name: "title",
	})
	cfg.Models[0].Fields = append(cfg.Models[0].Fields, &schema.Field{
		Type: schema.FieldStyle, Name: "styles",
		Styles: map[string]map[string]any{
			"title": {"textAlign": []any{"left", "right"}, "fontWeight": "*"},
		},
	})

	valid := map[string]any{
		"title": "Hi",
		"styles": map[string]any{
			"title": map[string]any{"textAlign": "left", "fontWeight": "700"},
		},
	}
	if errs := validateThing(cfg, valid); len(errs) != 0 {
		t.Fatalf("valid styles produced errors: %v", errs)
	}

	// A keyword outside the declared tokens.
	errs := validateThing(cfg, map[string]any{
		"styles": map[string]any{"title": map[string]any{"textAlign": "center"}},
	})
	if len(errs) != 1 || errs[0].Type != apperr.CodeStyleValueInvalid {
		t.Errorf("errors = %v, want one style.value.invalid", errs)
	}

	// An undeclared property.
	errs = validateThing(cfg, map[string]any{
		"styles": map[string]any{"title": map[string]any{"padding": "x4"}},
	})
	if len(errs) != 1 || errs[0].Type != apperr.CodeStyleFieldInvalid {
		t.Errorf("errors = %v, want one style.field.invalid", errs)
	}
}

func TestRoundTripFromRawConfig(t *testing.T) {
	raw := map[string]any{
		"stackbitVersion": "~0.3.0",
		"models": map[string]any{
			"test": map[string]any{
				"type":  "object",
				"label": "Test Model",
				"fields": []any{
					map[string]any{"type": "string", "name": "s"},
				},
			},
		},
	}
	result := schema.ValidateConfig(raw)
	if !result.Valid {
		t.Fatalf("config errors: %v", result.Errors)
	}
	models, extErrs := schema.ExtendModels(result.Config.Models)
	if len(extErrs) != 0 {
		t.Fatalf("extend errors: %v", extErrs)
	}
	result.Config.Models = models
	reg := NewRegistry(result.Config)

	errs := reg.ValidateItem(&Item{FilePath: "data/t.yaml", ModelName: "test", Data: map[string]any{"s": "hello"}})
	if len(errs) != 0 {
		t.Fatalf("valid content produced errors: %v", errs)
	}
	errs = reg.ValidateItem(&Item{FilePath: "data/t.yaml", ModelName: "test", Data: map[string]any{"s": 42}})
	if len(errs) != 1 || errs[0].Type != apperr.CodeStringBase || errs[0].FieldPath.String() != "s" {
		t.Fatalf("errors = %v, want one string.base at s", errs)
	}
}

func TestValidate_SkipsUnmodeledItems(t *testing.T) {
	cfg := singleFieldConfig(&schema.Field{Type: schema.FieldString, Name: "s", Required: true})
	items := []*Item{
		{FilePath: "data/ok.yaml", ModelName: "thing", Data: map[string]any{"s": "x"}},
		{FilePath: "data/stray.yaml", Data: map[string]any{"anything": true}},
	}
	result := Validate(items, cfg)
	if !result.Valid || len(result.Errors) != 0 {
		t.Errorf("unmodeled item must be skipped, got %v", result.Errors)
	}
}
