package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/noteguard/pkg/guard"
	"github.com/aretw0/noteguard/pkg/render"
)

var getHTML bool

var notesGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])

		app := openApp(cmd)
		defer app.Close()
		enter(app, guard.NotePath(id))

		note, err := app.Client.GetNote(app.Navigator.Context(), id)
		check(app, "Failed to load note", err)

		switch {
		case jsonOutput:
			printJSON(note)
		case getHTML:
			out, err := render.HTML(note)
			check(app, "Failed to render note", err)
			fmt.Fprint(stdout, out)
		default:
			printNote(note, time.Now())
		}
	},
}

func init() {
	notesCmd.AddCommand(notesGetCmd)
	notesGetCmd.Flags().BoolVar(&getHTML, "html", false, "Render the note content as HTML")
}
