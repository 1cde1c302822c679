package content

import (
	"testing"

	"github.com/stencilcms/stencil/internal/apperr"
	"github.com/stencilcms/stencil/internal/schema"
)

func annotatorConfig() *schema.Config {
	return &schema.Config{
		Models: []*schema.Model{
			{
				Name: "page", Type: schema.ModelPage, Folder: "pages",
				Fields: []*schema.Field{
					{Type: schema.FieldString, Name: "title"},
					{Type: schema.FieldModel, Name: "hero", Models: []string{"hero"}},
					{
						Type: schema.FieldList, Name: "blocks",
						Items: &schema.Field{Type: schema.FieldModel, Models: []string{"quote", "cta"}},
					},
				},
			},
			{
				Name: "hero", Type: schema.ModelObject,
				Fields: []*schema.Field{{Type: schema.FieldString, Name: "heading"}},
			},
			{
				Name: "quote", Type: schema.ModelObject,
				Fields: []*schema.Field{{Type: schema.FieldString, Name: "text"}},
			},
			{
				Name: "cta", Type: schema.ModelObject,
				Fields: []*schema.Field{{Type: schema.FieldString, Name: "label"}},
			},
		},
	}
}

func metaOf(t *testing.T, v any) map[string]any {
	t.Helper()
	obj, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("value %v is not an object", v)
	}
	meta, ok := obj[MetadataKey].(map[string]any)
	if !ok {
		t.Fatalf("object has no %s map", MetadataKey)
	}
	return meta
}

func TestAnnotate_RootMetadata(t *testing.T) {
	cfg := annotatorConfig()
	model := cfg.ModelByName("page")

	out, errs := Annotate(map[string]any{"title": "Hi"}, model, "pages/a.md", cfg)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	meta := metaOf(t, out)
	if meta[MetaModelName] != "page" || meta[MetaFilePath] != "pages/a.md" {
		t.Errorf("root metadata = %v, want modelName page and the file path", meta)
	}
}

func TestAnnotate_SingleCandidateModelField(t *testing.T) {
	cfg := annotatorConfig()
	model := cfg.ModelByName("page")
	value := map[string]any{
		"hero": map[string]any{"heading": "Welcome"},
	}

	out, errs := Annotate(value, model, "pages/a.md", cfg)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	meta := metaOf(t, out["hero"])
	if meta[MetaModelName] != "hero" {
		t.Errorf("hero metadata = %v, want modelName hero", meta)
	}
}

func TestAnnotate_PolymorphicListByDiscriminator(t *testing.T) {
	cfg := annotatorConfig()
	model := cfg.ModelByName("page")
	value := map[string]any{
		"blocks": []any{
			map[string]any{"type": "quote", "text": "hello"},
			map[string]any{"type": "cta", "label": "go"},
		},
	}

	out, errs := Annotate(value, model, "pages/a.md", cfg)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	blocks := out["blocks"].([]any)
	if got := metaOf(t, blocks[0])[MetaModelName]; got != "quote" {
		t.Errorf("blocks[0] modelName = %v, want quote", got)
	}
	if got := metaOf(t, blocks[1])[MetaModelName]; got != "cta" {
		t.Errorf("blocks[1] modelName = %v, want cta", got)
	}
}

func TestAnnotate_UnresolvedModelKeepsWalking(t *testing.T) {
	cfg := annotatorConfig()
	model := cfg.ModelByName("page")
	value := map[string]any{
		"blocks": []any{
			map[string]any{"type": "banner", "label": "?"},
			map[string]any{"type": "quote", "text": "still annotated"},
		},
	}

	out, errs := Annotate(value, model, "pages/a.md", cfg)
	if len(errs) != 1 || errs[0].Type != apperr.CodeObjectNotMatchedModel {
		t.Fatalf("errors = %v, want exactly one object.not.matched.model", errs)
	}

	blocks := out["blocks"].([]any)
	badMeta := metaOf(t, blocks[0])
	if badMeta[MetaModelName] != nil {
		t.Errorf("unresolved object modelName = %v, want nil", badMeta[MetaModelName])
	}
	if badMeta[MetaError] == "" || badMeta[MetaError] == nil {
		t.Errorf("unresolved object must carry an error message, got %v", badMeta)
	}
	// The walk continues past the failure.
	if got := metaOf(t, blocks[1])[MetaModelName]; got != "quote" {
		t.Errorf("blocks[1] modelName = %v, want quote", got)
	}
}

func TestAnnotate_MissingDiscriminator(t *testing.T) {
	cfg := annotatorConfig()
	model := cfg.ModelByName("page")
	value := map[string]any{
		"blocks": []any{map[string]any{"text": "no type key"}},
	}

	_, errs := Annotate(value, model, "pages/a.md", cfg)
	if len(errs) != 1 || errs[0].Type != apperr.CodeObjectNotMatchedModel {
		t.Fatalf("errors = %v, want one object.not.matched.model", errs)
	}
}

func TestAnnotate_ExtraKeyReported(t *testing.T) {
	cfg := annotatorConfig()
	model := cfg.ModelByName("page")
	value := map[string]any{
		"title":   "Hi",
		"sidebar": map[string]any{"x": 1},
	}

	out, errs := Annotate(value, model, "pages/a.md", cfg)
	if len(errs) != 1 || errs[0].Type != apperr.CodeFieldNotMatched {
		t.Fatalf("errors = %v, want one field.not.matched", errs)
	}
	if errs[0].FieldPath.String() != "sidebar" {
		t.Errorf("fieldPath = %q, want sidebar", errs[0].FieldPath)
	}
	// The unmatched subtree is preserved in the output.
	if _, ok := out["sidebar"]; !ok {
		t.Errorf("unmatched key must survive annotation")
	}
}

func TestAnnotate_ImplicitKeysAllowed(t *testing.T) {
	cfg := annotatorConfig()
	model := cfg.ModelByName("page")
	value := map[string]any{
		"layout":           "page",
		"markdown_content": "# body",
	}

	_, errs := Annotate(value, model, "pages/a.md", cfg)
	if len(errs) != 0 {
		t.Errorf("discriminator and markdown body keys must not be reported: %v", errs)
	}
}

func TestAnnotate_InputNotMutated(t *testing.T) {
	cfg := annotatorConfig()
	model := cfg.ModelByName("page")
	value := map[string]any{
		"hero": map[string]any{"heading": "Welcome"},
	}

	Annotate(value, model, "pages/a.md", cfg)
	if _, ok := value[MetadataKey]; ok {
		t.Errorf("input root must stay untouched")
	}
	hero := value["hero"].(map[string]any)
	if _, ok := hero[MetadataKey]; ok {
		t.Errorf("input subtree must stay untouched")
	}
}
