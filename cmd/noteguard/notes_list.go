package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/noteguard/pkg/core"
	"github.com/aretw0/noteguard/pkg/guard"
	"github.com/aretw0/noteguard/pkg/render"
)

var (
	listSearch string
	listSort   string
)

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		key, err := core.ParseSortKey(listSort)
		if err != nil {
			fatal("Invalid sort key", err)
		}

		app := openApp(cmd)
		defer app.Close()
		enter(app, guard.PathHome)

		notes, err := app.Client.ListOwnNotes(app.Navigator.Context())
		check(app, "Failed to load notes", err)

		notes = core.SortNotes(core.FilterNotes(notes, listSearch), key)
		if jsonOutput {
			printJSON(notes)
			return
		}

		now := time.Now()
		for _, n := range notes {
			fmt.Fprintln(stdout, noteLine(n, now))
			if preview := render.Preview(n.Content); preview != "" {
				fmt.Fprintf(stdout, "    %s\n", preview)
			}
		}
		fmt.Fprintf(stdout, "\n%d notes, %d shared, %d expiring\n", len(notes), core.CountShared(notes), core.CountExpiring(notes, now))
	},
}

func init() {
	notesCmd.AddCommand(notesListCmd)
	notesListCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Only notes whose title or content contains this text")
	notesListCmd.Flags().StringVar(&listSort, "sort", string(core.SortByUpdated), "Sort by createdAt, updatedAt or title")
}
