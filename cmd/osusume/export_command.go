package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"osusume/internal/build"
	"osusume/internal/catalog"
	"osusume/internal/render"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as a static HTML site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.cfg
			if dir := strings.TrimSpace(outDir); dir != "" {
				cfg.Build.PublicDir = dir
			}
			if cfg.Build.PublicDir == "" {
				return fmt.Errorf("export: no output directory configured")
			}

			tpl, err := render.NewTemplateRenderer(cfg.Build.ThemeDir)
			if err != nil {
				return err
			}
			static := ""
			if cfg.Build.ThemeDir != "" {
				static = filepath.Join(cfg.Build.ThemeDir, "static")
			}

			return ctx.withSnapshot(cmd.Context(), func(snap *catalog.Snapshot) error {
				ex := &build.Exporter{
					Pages:     ctx.pages(false),
					Renderer:  tpl,
					OutDir:    cfg.Build.PublicDir,
					StaticDir: static,
					Logger:    ctx.logger,
				}
				res, err := ex.Run(cmd.Context(), snap)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d list pages and %d item pages to %s (%d documents skipped)\n",
					res.ListPages, res.ItemPages, cfg.Build.PublicDir, res.Skipped)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default from config, public)")
	return cmd
}
