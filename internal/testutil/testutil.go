// Package testutil provides shared test helpers for setting up temporary
// project directories.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stencilcms/stencil/internal/storage"
)

// TestProject creates a temporary project directory populated with the
// given files (path relative to the root, mapped to content) and returns
// its path and a storage.Provider over it.
func TestProject(t *testing.T, files map[string]string) (string, storage.Provider) {
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
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}
