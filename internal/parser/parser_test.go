package parser

import (
	"errors"
	"testing"

	"github.com/stencilcms/stencil/internal/apperr"
)

func TestParseFile_MarkdownWithFrontmatter(t *testing.T) {
	data := []byte("---\ntitle: Hello\ntags:\n  - go\n---\n# Heading\n\nBody.\n")
	out, err := ParseFile("pages/a.md", data)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if out["title"] != "Hello" {
		t.Errorf("title = %v, want Hello", out["title"])
	}
	if body, _ := out[MarkdownContentField].(string); body != "# Heading\n\nBody.\n" {
		t.Errorf("body = %q", body)
	}
}

func TestParseFile_MarkdownWithoutFrontmatter(t *testing.T) {
	out, err := ParseFile("pages/a.md", []byte("just text\n"))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(out) != 1 || out[MarkdownContentField] != "just text\n" {
		t.Errorf("out = %v, want only the body key", out)
	}
}

func TestParseFile_MarkdownUnclosedFrontmatter(t *testing.T) {
	out, err := ParseFile("pages/a.md", []byte("---\ntitle: Hello\n"))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	// No closing delimiter: the whole file is body.
	if out[MarkdownContentField] != "---\ntitle: Hello\n" {
		t.Errorf("body = %q, want the raw file", out[MarkdownContentField])
	}
}

func TestParseFile_MarkdownBrokenFrontmatter(t *testing.T) {
	_, err := ParseFile("pages/a.md", []byte("---\ntitle: [unclosed\n---\nbody\n"))
	if err == nil {
		t.Fatal("broken frontmatter must be reported, not swallowed")
	}
}

func TestParseFile_YAMLObject(t *testing.T) {
	out, err := ParseFile("data/site.yaml", []byte("name: Site\ncount: 3\n"))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if out["name"] != "Site" || out["count"] != 3 {
		t.Errorf("out = %v", out)
	}
}

func TestParseFile_YAMLBareList(t *testing.T) {
	out, err := ParseFile("data/tags.yml", []byte("- go\n- cms\n"))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	items, ok := out["items"].([]any)
	if !ok || len(items) != 2 || items[0] != "go" {
		t.Errorf("out = %v, want bare list wrapped into items", out)
	}
}

func TestParseFile_EmptyYAML(t *testing.T) {
	out, err := ParseFile("data/empty.yaml", nil)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("out = %v, want empty map", out)
	}
}

func TestParseFile_JSON(t *testing.T) {
	out, err := ParseFile("data/site.json", []byte(`{"name":"Site","nested":{"a":1}}`))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if out["name"] != "Site" {
		t.Errorf("out = %v", out)
	}
	if _, ok := out["nested"].(map[string]any); !ok {
		t.Errorf("nested = %T, want map", out["nested"])
	}
}

func TestParseFile_TOML(t *testing.T) {
	out, err := ParseFile("data/site.toml", []byte("name = \"Site\"\n\n[owner]\nname = \"Ann\"\n"))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if out["name"] != "Site" {
		t.Errorf("out = %v", out)
	}
}

func TestParseFile_UnsupportedExtension(t *testing.T) {
	_, err := ParseFile("notes.txt", []byte("hi"))
	if !errors.Is(err, apperr.ErrUnsupportedExtension) {
		t.Fatalf("err = %v, want ErrUnsupportedExtension", err)
	}
}

func TestParseFile_InvalidJSON(t *testing.T) {
	if _, err := ParseFile("data/x.json", []byte("{")); err == nil {
		t.Fatal("invalid json must error")
	}
}
