package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"osusume/internal/catalog"
	"osusume/internal/domain/media"
	"osusume/internal/view"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var typeFlag string
	var group string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog items",
		Long:  "List catalog items, grouped by creator (most items first), by type then creator, or not at all.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := view.ParseFilter(typeFlag)
			if err != nil {
				return err
			}
			switch group {
			case "creator", "type", "none":
			default:
				return fmt.Errorf("invalid --group %q: must be 'creator', 'type' or 'none'", group)
			}

			return ctx.withSnapshot(cmd.Context(), func(snap *catalog.Snapshot) error {
				items := view.FilterByType(snap.Items(), filter)
				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "No items.")
					return nil
				}

				var rows [][]string
				var headers []string
				switch group {
				case "creator":
					headers = []string{"Creator", "Type", "Title", "Year", "ID"}
					for _, g := range view.GroupByCreator(items, ctx.cfg.LanguageTag()) {
						for _, it := range g.Items {
							rows = append(rows, []string{g.Creator, it.Type.Label(), it.Title, it.Year, it.ID})
						}
					}
				case "type":
					headers = []string{"Type", "Creator", "Title", "Year", "ID"}
					for _, tg := range view.GroupByTypeThenCreator(items) {
						for _, cg := range tg.Creators {
							for _, it := range cg.Items {
								rows = append(rows, []string{tg.Type.Label(), cg.Creator, it.Title, it.Year, it.ID})
							}
						}
					}
				default:
					headers = []string{"ID", "Type", "Title", "Creator", "Year", "Importance"}
					for _, it := range items {
						rows = append(rows, []string{it.ID, it.Type.Label(), it.Title, it.Creator, it.Year, strconv.Itoa(it.Importance)})
					}
				}

				aligns := make([]columnAlignment, len(headers))
				if group == "none" {
					aligns[len(aligns)-1] = alignRight
				}
				fmt.Fprintln(out, renderTable(headers, rows, aligns))
				fmt.Fprintf(out, "%d items\n", len(items))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&typeFlag, "type", "t", string(view.All), "Only list items of this type ("+typeNames()+")")
	cmd.Flags().StringVarP(&group, "group", "g", "creator", "Grouping: creator, type or none")
	return cmd
}

func typeNames() string {
	s := string(view.All)
	for _, t := range media.Types() {
		s += ", " + string(t)
	}
	return s
}
