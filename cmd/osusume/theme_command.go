package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"osusume/internal/render"
)

func newThemeCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Manage page templates",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Copy the built-in templates into a directory for customizing",
		Long:  "Copy the built-in templates into dir (default: build.theme_dir, or ./theme). Point build.theme_dir at it to use the copy.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ctx.cfg.Build.ThemeDir
			if len(args) == 1 {
				dir = strings.TrimSpace(args[0])
			}
			if dir == "" {
				dir = "theme"
			}
			names, err := render.SeedTheme(dir, force)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range names {
				fmt.Fprintln(out, filepath.Join(dir, name))
			}
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing templates")

	cmd.AddCommand(initCmd)
	return cmd
}
