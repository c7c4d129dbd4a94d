package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/noteguard/pkg/core"
	"github.com/aretw0/noteguard/pkg/guard"
	"github.com/aretw0/noteguard/pkg/notify"
)

var (
	noteTitle   string
	noteContent string
	noteExpires int
)

// contentArg returns --content, or stdin when it is "-".
func contentArg(value string) string {
	if value != "-" {
		return value
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fatal("Error reading content", err)
	}
	return strings.TrimRight(string(data), "\n")
}

var notesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a note",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		title := strings.TrimSpace(noteTitle)
		content := contentArg(noteContent)
		if title == "" || strings.TrimSpace(content) == "" {
			fatal("Invalid note", fmt.Errorf("title and content are required"))
		}

		app := openApp(cmd)
		defer app.Close()
		enter(app, guard.PathHome)

		fields := core.NoteFields{Title: &title, Content: &content}
		ctx := app.Navigator.Context()

		var note core.Note
		var err error
		if noteExpires > 0 {
			note, err = app.Client.CreateNoteExpiringIn(ctx, fields, noteExpires)
		} else {
			note, err = app.Client.CreateNote(ctx, fields)
		}
		check(app, "Failed to create note", err)

		app.Notifier.Notify(notify.Success("Note created successfully!"))
		if jsonOutput {
			printJSON(note)
			return
		}
		fmt.Fprintln(stdout, noteLine(note, time.Now()))
	},
}

func init() {
	notesCmd.AddCommand(notesCreateCmd)
	notesCreateCmd.Flags().StringVarP(&noteTitle, "title", "t", "", "Note title")
	notesCreateCmd.Flags().StringVarP(&noteContent, "content", "c", "", "Note content, or - to read stdin")
	notesCreateCmd.Flags().IntVar(&noteExpires, "expires-in", 0, "Expire the note after this many hours")
}
