// Package internal provides the application initialization and the
// validation pipeline wiring.
package internal

import (
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application runtime configuration. The project's
// content schema is a separate document, loaded through pkg/config and
// validated by internal/schema.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Project ProjectConfig     `yaml:"project"`
	Content ContentConfig     `yaml:"content"`
	Watch   WatchConfig       `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Project.Validate(); err != nil {
		return err
	}
	return c.Content.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// ProjectConfig locates the project and its schema file.
type ProjectConfig struct {
	// Dir is the project root containing content and the schema file.
	Dir string `yaml:"dir"`
	// ConfigFile optionally pins the schema file path; empty means discover
	// stencil.yaml / stencil.yml / stencil.json under Dir.
	ConfigFile string `yaml:"config_file"`
}

// Validate validates the project configuration.
func (c *ProjectConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
	)
}

// ContentConfig tunes content loading and validation.
type ContentConfig struct {
	// IncludeUnmodeled keeps files that matched no model in the result set.
	IncludeUnmodeled bool `yaml:"include_unmodeled"`
	// Concurrency bounds the per-file load fan-out.
	Concurrency int `yaml:"concurrency"`
}

// Validate validates the content configuration.
func (c *ContentConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Concurrency, validation.Min(0), validation.Max(64)),
	)
}

// WatchConfig controls the revalidation loop.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Project: ProjectConfig{
			Dir: ".",
		},
		Content: ContentConfig{
			IncludeUnmodeled: true,
			Concurrency:      8,
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
	}
}
