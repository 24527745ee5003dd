package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"osusume/internal/catalog"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one catalog item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return ctx.withSnapshot(cmd.Context(), func(snap *catalog.Snapshot) error {
				it, ok := snap.Lookup(id)
				if !ok {
					return fmt.Errorf("item %q not found", id)
				}

				rows := [][]string{
					{"ID", it.ID},
					{"Type", fmt.Sprintf("%s (%s)", it.Type.Label(), it.Type)},
					{"Title", it.Title},
					{"Creator", it.Creator},
					{"Year", it.Year},
					{"Importance", strconv.Itoa(it.Importance)},
				}
				if it.ImageURL != "" {
					rows = append(rows, []string{"Image", it.ImageURL})
				}
				if len(it.Tags) > 0 {
					rows = append(rows, []string{"Tags", strings.Join(it.Tags, ", ")})
				}
				for _, rel := range it.Related {
					label := rel
					if other, ok := snap.Lookup(rel); ok {
						label = other.Title + " (" + rel + ")"
					}
					rows = append(rows, []string{"Related", label})
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))
				if notes := strings.TrimSpace(it.Notes); notes != "" {
					fmt.Fprintln(out)
					fmt.Fprintln(out, notes)
				}
				return nil
			})
		},
	}
}
