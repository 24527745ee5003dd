package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	ctx := newCommandContext()

	rootCmd := &cobra.Command{
		Use:           "osusume",
		Short:         "Browse a catalog of recommended media",
		Long:          "Osusume reads markdown documents with front matter and presents them as a browsable catalog of books, films, music and more.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.flags.config, "config", "c", "osusume.yaml", "Configuration file path (.yaml or .toml)")
	flags.StringVar(&ctx.flags.content, "content", "", "Content directory to read documents from")
	flags.StringVar(&ctx.flags.bundle, "bundle", "", "Read documents from a bundle file instead of the content directory")
	flags.StringVar(&ctx.flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&ctx.flags.logFormat, "log-format", "", "Log format (auto, text, json)")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newBundleCommand(ctx))
	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newThemeCommand(ctx))

	return rootCmd
}
