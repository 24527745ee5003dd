package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"osusume/internal/render"
	"osusume/internal/serve"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over HTTP",
		Long:  "Serve the catalog as a browsable site. Content directories are watched and browsers reload when the catalog changes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.cfg
			if cmd.Flags().Changed("addr") {
				cfg.Serve.Addr = addr
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			src, dir, closeFn, err := ctx.source()
			if err != nil {
				return err
			}
			defer closeFn()

			watchDir := ""
			if cfg.Serve.Watch && !noWatch {
				watchDir = dir
			}

			tpl, err := render.NewTemplateRenderer(cfg.Build.ThemeDir)
			if err != nil {
				return err
			}
			s, err := serve.New(serve.Options{
				Catalog:  ctx.newCatalog(src),
				Pages:    ctx.pages(watchDir != ""),
				Renderer: tpl,
				Logger:   ctx.logger,
				WatchDir: watchDir,
			})
			if err != nil {
				return err
			}
			defer s.Close()

			return s.ListenAndServe(runCtx, cfg.Serve.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Disable live reload")
	return cmd
}
