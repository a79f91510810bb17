package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-recordlayout/internal/config"
	"github.com/goliatone/go-recordlayout/pkg/describe"
	"github.com/goliatone/go-recordlayout/pkg/metadata"
	"github.com/goliatone/go-recordlayout/pkg/record"
	"github.com/goliatone/go-recordlayout/pkg/render"
)

// environment is the wiring shared by every command.
type environment struct {
	cfg      config.Config
	logger   *slog.Logger
	layouts  *describe.Store
	records  *record.Store
	pipeline *render.Pipeline
	themes   *render.ManifestSelector
}

func loadEnvironment(cmd *cobra.Command) (*environment, error) {
	flags := cmd.Root().PersistentFlags()

	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if flags.Changed("metadata") {
		cfg.Metadata, _ = flags.GetStringSlice("metadata")
	}
	if flags.Changed("records") {
		cfg.Records, _ = flags.GetStringSlice("records")
	}
	if flags.Changed("openapi") {
		cfg.OpenAPI, _ = flags.GetString("openapi")
	}
	if flags.Changed("location") {
		cfg.Location, _ = flags.GetString("location")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if len(cfg.Metadata) == 0 {
		return nil, fmt.Errorf("no metadata directories configured (use --metadata)")
	}

	env := &environment{cfg: cfg, logger: cfg.Logger(os.Stderr)}

	env.layouts, err = describe.LoadFS(dirs(cfg.Metadata)...)
	if err != nil {
		return nil, err
	}
	env.records, err = record.LoadFS(dirs(cfg.Records)...)
	if err != nil {
		return nil, err
	}

	var describer metadata.Describer = env.layouts
	if cfg.OpenAPI != "" {
		data, err := os.ReadFile(cfg.OpenAPI)
		if err != nil {
			return nil, fmt.Errorf("read openapi %s: %w", cfg.OpenAPI, err)
		}
		schemas, err := describe.NewOpenAPI(cmd.Context(), data)
		if err != nil {
			return nil, err
		}
		describer = describe.Chain{env.layouts, schemas}
	}

	loc, err := cfg.TimeLocation()
	if err != nil {
		return nil, err
	}
	engine, err := render.NewEngine(cfg.EngineOptions()...)
	if err != nil {
		return nil, err
	}
	env.pipeline, err = render.NewPipeline(describer, env.layouts,
		render.WithEngine(engine),
		render.WithRecords(env.records),
		render.WithLocation(loc),
		render.WithLogger(env.logger),
	)
	if err != nil {
		return nil, err
	}

	defaultTheme := "default"
	manifests := []*theme.Manifest{render.DefaultManifest()}
	if custom := cfg.ThemeManifest(); custom != nil {
		manifests = append(manifests, custom)
		defaultTheme = custom.Name
	}
	env.themes, err = render.NewManifestSelector(defaultTheme, cfg.Theme.Variant, manifests...)
	if err != nil {
		return nil, err
	}

	env.logger.Debug("environment loaded",
		"metadata", cfg.Metadata, "records", cfg.Records, "objects", len(env.layouts.Objects()))
	return env, nil
}

func dirs(paths []string) []fs.FS {
	out := make([]fs.FS, 0, len(paths))
	for _, path := range paths {
		out = append(out, os.DirFS(path))
	}
	return out
}
