package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"osusume/internal/catalog"
)

var errDocumentsSkipped = errors.New("some documents were skipped")

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report documents that could not be ingested",
		Long:  "Load the catalog and list every skipped document with the reason it was skipped. With --strict the command fails when anything was skipped.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSnapshot(cmd.Context(), func(snap *catalog.Snapshot) error {
				out := cmd.OutOrStdout()
				skipped := snap.Skipped()
				fmt.Fprintf(out, "%d items, %d skipped\n", snap.Len(), len(skipped))
				if len(skipped) == 0 {
					return nil
				}

				rows := make([][]string, 0, len(skipped))
				for _, d := range skipped {
					rows = append(rows, []string{d.ID, string(d.Kind), d.Reason})
				}
				fmt.Fprintln(out, renderTable([]string{"Document", "Kind", "Reason"}, rows, nil))

				if strict {
					return fmt.Errorf("%w: %d of %d", errDocumentsSkipped, len(skipped), snap.Len()+len(skipped))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any document was skipped")
	return cmd
}
