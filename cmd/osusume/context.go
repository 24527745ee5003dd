package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"osusume/internal/app"
	"osusume/internal/bundle"
	"osusume/internal/catalog"
	"osusume/internal/domain/config"
	"osusume/internal/ingest"
	"osusume/internal/logging"
	"osusume/internal/render"
)

type globalFlags struct {
	config    string
	content   string
	bundle    string
	logLevel  string
	logFormat string
}

type commandContext struct {
	flags  globalFlags
	lookup func(string) (string, bool)

	cfg    config.Config
	logger *slog.Logger
}

func newCommandContext() *commandContext {
	return &commandContext{lookup: os.LookupEnv}
}

// setup resolves configuration in order: .env, config file, environment,
// then command line flags.
func (c *commandContext) setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.LoadOrDefault(strings.TrimSpace(c.flags.config))
	if err != nil {
		return fmt.Errorf("load config %s: %w", c.flags.config, err)
	}
	cfg.ApplyEnv(c.lookup)

	override := func(flag, v string, dst *string) {
		if cmd.Flags().Changed(flag) {
			*dst = strings.TrimSpace(v)
		}
	}
	override("content", c.flags.content, &cfg.Build.ContentDir)
	override("bundle", c.flags.bundle, &cfg.Build.BundlePath)
	override("log-level", c.flags.logLevel, &cfg.Log.Level)
	override("log-format", c.flags.logFormat, &cfg.Log.Format)
	if cmd.Flags().Changed("content") && !cmd.Flags().Changed("bundle") {
		cfg.Build.BundlePath = ""
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = logger
	return nil
}

// source opens the configured document source. watchDir is empty when the
// source is a bundle.
func (c *commandContext) source() (src ingest.Source, watchDir string, closeFn func() error, err error) {
	if path := c.cfg.Build.BundlePath; path != "" {
		store, err := bundle.Open(bundle.OpenOptions{
			Path:       path,
			ReadOnly:   true,
			Extensions: c.cfg.Build.Extensions,
		})
		if err != nil {
			return nil, "", nil, err
		}
		return store, "", store.Close, nil
	}
	dir := c.cfg.Build.ContentDir
	return ingest.NewDirSource(dir, c.cfg.Build.Extensions...), dir, func() error { return nil }, nil
}

func (c *commandContext) newCatalog(src ingest.Source) *catalog.Catalog {
	var opts []ingest.Option
	if c.cfg.Build.Workers > 0 {
		opts = append(opts, ingest.WithWorkers(c.cfg.Build.Workers))
	}
	return catalog.New(src, c.logger, opts...)
}

// withSnapshot loads the catalog once and hands the snapshot to fn.
func (c *commandContext) withSnapshot(ctx context.Context, fn func(*catalog.Snapshot) error) error {
	src, _, closeFn, err := c.source()
	if err != nil {
		return err
	}
	defer closeFn()

	snap, err := c.newCatalog(src).Load(ctx)
	if err != nil {
		return err
	}
	return fn(snap)
}

func (c *commandContext) pages(liveReload bool) *app.Pages {
	return &app.Pages{
		Site: render.SiteInfo{
			Title:      c.cfg.Catalog.Title,
			BasePath:   c.cfg.Build.BasePath,
			LiveReload: liveReload,
		},
		Language: c.cfg.LanguageTag(),
		Markdown: render.NewMarkdownRenderer(),
	}
}
