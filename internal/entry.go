package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/stencilcms/stencil/internal/apperr"
	"github.com/stencilcms/stencil/internal/content"
	"github.com/stencilcms/stencil/internal/schema"
	"github.com/stencilcms/stencil/internal/storage"
	"github.com/stencilcms/stencil/internal/watch"
	pkgconfig "github.com/stencilcms/stencil/pkg/config"
)

// ErrValidationFailed is returned by Run when the pipeline reported at
// least one validation error.
var ErrValidationFailed = errors.New("validation failed")

// Run executes the validation pipeline with the given options. In watch
// mode it keeps re-running the pipeline on project changes until the
// context is cancelled or a shutdown signal arrives.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		slog.String("project_dir", cfg.Project.Dir),
		slog.Bool("watch", cfg.Watch.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if !cfg.Watch.Enabled {
		errCount, err := runPipeline(ctx, cfg, logger)
		if err != nil {
			return err
		}
		if errCount > 0 {
			return fmt.Errorf("%w: %d errors", ErrValidationFailed, errCount)
		}
		return nil
	}

	rerun := func() {
		if n, err := runPipeline(ctx, cfg, logger); err != nil {
			logger.Error("pipeline error", slog.String("error", err.Error()))
		} else if n > 0 {
			logger.Warn("validation failed", slog.Int("errors", n))
		} else {
			logger.Info("validation passed")
		}
	}
	rerun()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watch.Watch(gCtx, cfg.Project.Dir, cfg.Watch.Debounce, logger, rerun)
	})
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
		}
		return context.Canceled
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("stopped")
	return nil
}

// runPipeline runs one full pass: schema validation, extension, content
// loading/matching/annotation and content validation. It returns the total
// number of validation errors reported.
func runPipeline(ctx context.Context, cfg *Config, logger *slog.Logger) (int, error) {
	configFile := cfg.Project.ConfigFile
	if configFile == "" {
		found, err := pkgconfig.Find(cfg.Project.Dir)
		if err != nil {
			return 0, err
		}
		configFile = found
	}

	raw, err := pkgconfig.LoadRaw(configFile)
	if err != nil {
		return 0, err
	}

	result := schema.ValidateConfig(raw)
	models, extendErrs := schema.ExtendModels(result.Config.Models)
	result.Config.Models = models

	store, err := storage.NewFS(cfg.Project.Dir)
	if err != nil {
		return 0, err
	}

	loaded, err := content.LoadAndMatch(ctx, store, result.Config, logger, content.LoadOptions{
		SkipUnmodeled: !cfg.Content.IncludeUnmodeled,
		Concurrency:   cfg.Content.Concurrency,
	})
	if err != nil {
		return 0, err
	}

	contentResult := content.Validate(loaded.Items, result.Config)

	var all []*apperr.ValidationError
	all = append(all, result.Errors...)
	all = append(all, extendErrs...)
	all = append(all, loaded.Errors...)
	all = append(all, contentResult.Errors...)

	for _, e := range all {
		logger.Warn("validation error",
			slog.String("type", e.Type),
			slog.String("message", e.Message),
			slog.String("fieldPath", e.FieldPath.String()),
			slog.String("model", e.ModelName),
			slog.String("file", e.FilePath))
	}
	logger.Info("pipeline finished",
		slog.Int("models", len(models)),
		slog.Int("items", len(loaded.Items)),
		slog.Int("errors", len(all)))
	return len(all), nil
}
