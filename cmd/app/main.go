package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/stencilcms/stencil/internal"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := internal.NewDefaultConfig()
	cfg.Project.Dir = cmd.String("dir")
	cfg.Project.ConfigFile = cmd.String("config")
	cfg.Content.IncludeUnmodeled = !cmd.Bool("skip-unmodeled")
	cfg.Watch.Enabled = cmd.Bool("watch")
	if cmd.Bool("verbose") {
		cfg.App.LogLevel = slog.LevelDebug
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return internal.Run(ctx, internal.WithConfig(cfg))
}

func main() {
	cmd := &cli.Command{
		Name:   "stencil",
		Usage:  "Validate a project's content schema and content files",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Project directory",
				Value:   ".",
				Sources: cli.EnvVars("STENCIL_PROJECT_DIR"),
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to the schema file",
				DefaultText: "discovered under --dir",
				Sources:     cli.EnvVars("STENCIL_CONFIG_FILE"),
			},
			&cli.BoolFlag{
				Name:  "skip-unmodeled",
				Usage: "Drop content files that match no model from the result set",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Re-run validation when project files change",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
