package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"osusume/internal/bundle"
	"osusume/internal/ingest"
)

const defaultBundlePath = "osusume.db"

func newBundleCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Pack the content directory into a single bundle file",
		Long:  "Pack every document of the content directory into a bbolt bundle. A bundle can later replace the directory with --bundle.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(output)
			if path == "" {
				path = ctx.cfg.Build.BundlePath
			}
			if path == "" {
				path = defaultBundlePath
			}
			if ctx.cfg.Build.ContentDir == "" {
				return fmt.Errorf("bundle: no content directory configured")
			}

			store, err := bundle.Open(bundle.OpenOptions{Path: path, Extensions: ctx.cfg.Build.Extensions})
			if err != nil {
				return err
			}
			defer store.Close()

			src := ingest.NewDirSource(ctx.cfg.Build.ContentDir, ctx.cfg.Build.Extensions...)
			n, err := store.Pack(cmd.Context(), src)
			if err != nil {
				return err
			}
			info, err := store.Info()
			if err != nil {
				return err
			}
			ctx.logger.Info("bundle written", "path", path, "documents", n, "created", info.Created)
			fmt.Fprintf(cmd.OutOrStdout(), "Packed %d documents into %s\n", n, path)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Bundle", "Documents", "Created"},
				[][]string{{path, strconv.Itoa(info.Count), info.Created.Local().Format("2006-01-02 15:04:05")}},
				[]columnAlignment{alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Bundle file to write (default from config, osusume.db)")
	return cmd
}
