package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/noteguard/pkg/core"
	"github.com/aretw0/noteguard/pkg/guard"
	"github.com/aretw0/noteguard/pkg/notify"
)

var (
	updateTitle   string
	updateContent string
	updateExpires string
)

var notesUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Change a note's title, content or expiration",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])

		var fields core.NoteFields
		flags := cmd.Flags()
		if flags.Changed("title") {
			title := strings.TrimSpace(updateTitle)
			if title == "" {
				fatal("Invalid note", fmt.Errorf("title must not be empty"))
			}
			fields.Title = &title
		}
		if flags.Changed("content") {
			content := contentArg(updateContent)
			fields.Content = &content
		}
		if flags.Changed("expires") {
			t, err := core.ParseTime(updateExpires)
			if err != nil {
				fatal("Invalid expiration", err)
			}
			fields.ExpirationTime = core.NewLocalTime(t.Time)
		}
		if fields.Title == nil && fields.Content == nil && fields.ExpirationTime == nil {
			fatal("Nothing to update", fmt.Errorf("pass --title, --content or --expires"))
		}

		app := openApp(cmd)
		defer app.Close()
		enter(app, guard.NotePath(id))

		note, err := app.Client.UpdateNote(app.Navigator.Context(), id, fields)
		check(app, "Failed to update note", err)

		app.Notifier.Notify(notify.Success("Note updated successfully!"))
		if jsonOutput {
			printJSON(note)
			return
		}
		fmt.Fprintln(stdout, noteLine(note, time.Now()))
	},
}

func init() {
	notesCmd.AddCommand(notesUpdateCmd)
	notesUpdateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "New title")
	notesUpdateCmd.Flags().StringVarP(&updateContent, "content", "c", "", "New content, or - to read stdin")
	notesUpdateCmd.Flags().StringVar(&updateExpires, "expires", "", "New expiration time, e.g. 2026-01-02T15:04:05")
}
