package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/noteguard/pkg/guard"
	"github.com/aretw0/noteguard/pkg/notify"
)

var notesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])

		app := openApp(cmd)
		defer app.Close()
		enter(app, guard.NotePath(id))

		err := app.Client.DeleteNote(app.Navigator.Context(), id)
		check(app, "Failed to delete note", err)
		app.Notifier.Notify(notify.Success("Note deleted successfully"))
	},
}

func init() {
	notesCmd.AddCommand(notesDeleteCmd)
}
