package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/noteguard/pkg/guard"
	"github.com/aretw0/noteguard/pkg/notify"
	"github.com/aretw0/noteguard/pkg/render"
)

var shareHours int

var notesShareCmd = &cobra.Command{
	Use:   "share [id]",
	Short: "Create a time-limited public link to a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])

		app := openApp(cmd)
		defer app.Close()
		enter(app, guard.NotePath(id))

		share, err := app.Client.ShareNote(app.Navigator.Context(), id, shareHours)
		check(app, "Failed to share note", err)

		app.Notifier.Notify(notify.Success("Note shared successfully!"))
		if jsonOutput {
			printJSON(share)
			return
		}
		link := share.ShareURL
		if link == "" {
			link = guard.SharedPath(share.ShareToken)
		}
		fmt.Fprintln(stdout, link)
		if exp := render.FormatDate(share.ExpirationTime); exp != "" {
			fmt.Fprintf(stdout, "Anyone with this link can view your note until %s.\n", exp)
		}
	},
}

var notesRevokeCmd = &cobra.Command{
	Use:   "revoke [id]",
	Short: "Revoke a note's share link",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])

		app := openApp(cmd)
		defer app.Close()
		enter(app, guard.NotePath(id))

		err := app.Client.RevokeShare(app.Navigator.Context(), id)
		check(app, "Failed to revoke share link", err)
		app.Notifier.Notify(notify.Success("Share link revoked successfully!"))
	},
}

func init() {
	notesCmd.AddCommand(notesShareCmd)
	notesCmd.AddCommand(notesRevokeCmd)
	notesShareCmd.Flags().IntVar(&shareHours, "hours", 24, "Hours the link stays valid")
}
