package content

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"golang.org/x/sync/errgroup"

	"github.com/stencilcms/stencil/internal/apperr"
	"github.com/stencilcms/stencil/internal/parser"
	"github.com/stencilcms/stencil/internal/schema"
	"github.com/stencilcms/stencil/internal/storage"
)

// LoadOptions tunes content loading.
type LoadOptions struct {
	// SkipUnmodeled drops files that matched no model from the result set;
	// when false they are kept as unmodeled items so surrounding valid
	// content is not penalized by one unrelated file.
	SkipUnmodeled bool
	// Concurrency bounds the per-file parse/match fan-out. Zero means a
	// small default.
	Concurrency int
}

const defaultConcurrency = 8

// LoadResult carries every loaded content item plus the errors from the
// load, match and annotation stages.
type LoadResult struct {
	Items  []*Item
	Errors []*apperr.ValidationError
}

// LoadAndMatch discovers content files for every page, data and config
// model, matches each file to exactly one model, and annotates nested
// objects with model identity. Files are processed concurrently; one broken
// file never stops the others. Item and error order is deterministic
// (directory listing order).
func LoadAndMatch(ctx context.Context, store storage.Provider, cfg *schema.Config, logger *slog.Logger, opts LoadOptions) (*LoadResult, error) {
	out := &LoadResult{}

	pages := cfg.ModelsByType(schema.ModelPage)
	items, errs, err := loadCategory(ctx, store, cfg, cfg.PagesDir, pages, cfg.ExcludePages, opts)
	if err != nil {
		return nil, err
	}
	out.Items = append(out.Items, items...)
	out.Errors = append(out.Errors, errs...)

	data := append(cfg.ModelsByType(schema.ModelData), cfg.ModelsByType(schema.ModelConfig)...)
	items, errs, err = loadCategory(ctx, store, cfg, cfg.DataDir, data, nil, opts)
	if err != nil {
		return nil, err
	}
	out.Items = append(out.Items, items...)
	out.Errors = append(out.Errors, errs...)

	logger.Info("content loaded",
		slog.Int("items", len(out.Items)),
		slog.Int("errors", len(out.Errors)))
	return out, nil
}

type fileResult struct {
	item *Item
	errs []*apperr.ValidationError
}

func loadCategory(ctx context.Context, store storage.Provider, cfg *schema.Config, dir string, models []*schema.Model, excludeGlobs []string, opts LoadOptions) ([]*Item, []*apperr.ValidationError, error) {
	if len(models) == 0 {
		return nil, nil, nil
	}
	files, err := store.ListFiles(dir, excludeGlobs, parser.Extensions)
	if err != nil {
		return nil, nil, fmt.Errorf("content: list %q: %w", dir, err)
	}

	// Singleton models pin an exact file; report the ones whose file is
	// missing, since no listing entry will ever match them.
	var missing []*apperr.ValidationError
	for _, m := range models {
		if m.File == "" {
			continue
		}
		expected := path.Join(dir, m.File)
		if !store.FileExists(expected) {
			missing = append(missing, apperr.NewContentError(
				apperr.CodeFileNotFound,
				fmt.Sprintf("model %q expects a file at %q, but it does not exist", m.Name, expected),
				nil, nil, m.Name, expected))
		}
	}

	results := make([]fileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	limit := opts.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}
	g.SetLimit(limit)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = loadFile(store, cfg, dir, file, models)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var items []*Item
	errs := missing
	for _, res := range results {
		errs = append(errs, res.errs...)
		if res.item == nil {
			continue
		}
		if !res.item.HasModel() && opts.SkipUnmodeled {
			continue
		}
		items = append(items, res.item)
	}
	return items, errs, nil
}

// loadFile reads, parses, matches and annotates one file. Every failure is
// converted into a typed validation error; nothing escapes as a panic or a
// hard error.
func loadFile(store storage.Provider, cfg *schema.Config, dir, file string, models []*schema.Model) fileResult {
	filePath := path.Join(dir, file)

	raw, err := store.Read(filePath)
	if err != nil {
		return fileResult{errs: []*apperr.ValidationError{apperr.NewContentError(
			apperr.CodeFileReadError, fmt.Sprintf("could not read file: %v", err),
			nil, nil, "", filePath)}}
	}
	value, err := parser.ParseFile(filePath, raw)
	if err != nil {
		return fileResult{errs: []*apperr.ValidationError{apperr.NewContentError(
			apperr.CodeFileParseError, fmt.Sprintf("could not parse file: %v", err),
			nil, nil, "", filePath)}}
	}

	model, matchErr := MatchFile(models, file, value, cfg)
	if matchErr != nil {
		matchErr.FilePath = filePath
		item := &Item{FilePath: filePath, Data: value}
		meta := newMetadata("", matchErr.Message)
		meta[MetaFilePath] = filePath
		item.Data[MetadataKey] = meta
		return fileResult{item: item, errs: []*apperr.ValidationError{matchErr}}
	}

	annotated, annErrs := Annotate(value, model, filePath, cfg)
	for _, e := range annErrs {
		e.FilePath = filePath
	}
	return fileResult{
		item: &Item{FilePath: filePath, ModelName: model.Name, Data: annotated},
		errs: annErrs,
	}
}
