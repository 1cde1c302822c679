// Package storage defines the project file-system abstraction the content
// pipeline reads through. The pipeline never writes project files.
package storage

// Provider is the interface for project file operations.
type Provider interface {
	// ListFiles walks dir (relative to the project root) and returns the
	// relative paths of files whose extension is in extensions, skipping
	// paths matched by excludeGlobs. Results are sorted.
	ListFiles(dir string, excludeGlobs []string, extensions []string) ([]string, error)
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
	// FileExists reports whether path (relative to root) is a regular file.
	FileExists(path string) bool
}
