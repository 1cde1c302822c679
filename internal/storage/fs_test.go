package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		abs := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestNewFS_RejectsMissingRoot(t *testing.T) {
	if _, err := NewFS(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestListFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"pages/a.md":        "a",
		"pages/blog/b.md":   "b",
		"pages/draft.md":    "d",
		"pages/image.png":   "binary",
		"pages/notes.txt":   "t",
		"data/authors.yaml": "y",
	})
	f, err := NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}

	got, err := f.ListFiles("pages", []string{"draft.md"}, []string{"md", "yaml"})
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	want := []string{"a.md", "blog/b.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("files = %v, want %v (sorted, filtered, excluded)", got, want)
	}
}

func TestListFiles_MissingDir(t *testing.T) {
	f, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	got, err := f.ListFiles("no/such/dir", nil, nil)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("files = %v, want none", got)
	}
}

func TestRead(t *testing.T) {
	dir := writeFiles(t, map[string]string{"data/site.yaml": "name: Site\n"})
	f, err := NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	data, err := f.Read("data/site.yaml")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "name: Site\n" {
		t.Errorf("data = %q", data)
	}
}

func TestFileExists(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.md": "x"})
	f, err := NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !f.FileExists("a.md") {
		t.Errorf("a.md should exist")
	}
	if f.FileExists("b.md") {
		t.Errorf("b.md should not exist")
	}
}

func TestSafePath_RejectsTraversal(t *testing.T) {
	f, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Read("../outside.txt"); err == nil {
		t.Errorf("traversal outside the root must be rejected")
	}
	if _, err := f.Read("/etc/passwd"); err == nil {
		t.Errorf("absolute paths must be rejected")
	}
}
