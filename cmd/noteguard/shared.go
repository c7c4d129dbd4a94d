package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/noteguard/pkg/guard"
	"github.com/aretw0/noteguard/pkg/render"
)

var sharedHTML bool

var sharedCmd = &cobra.Command{
	Use:   "shared [token]",
	Short: "Read a note through its share link",
	Long:  `Read a shared note. No account is needed; the link must not have expired.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		token := args[0]

		app := openApp(cmd)
		defer app.Close()
		enter(app, guard.SharedPath(token))

		note, err := app.Client.GetSharedNote(app.Navigator.Context(), token)
		check(app, "Failed to load shared note", err)

		switch {
		case jsonOutput:
			printJSON(note)
		case sharedHTML:
			out, err := render.HTML(note)
			check(app, "Failed to render note", err)
			fmt.Fprint(stdout, out)
		default:
			fmt.Fprintf(stdout, "%s\n\n%s\n", note.Title, note.Content)
			if note.User != nil {
				fmt.Fprintf(stdout, "\nShared by %s\n", note.User.DisplayName())
			}
			if exp := render.FormatDate(note.ShareExpirationTime); exp != "" && !note.IsExpired(time.Now()) {
				fmt.Fprintf(stdout, "Link valid until %s\n", exp)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(sharedCmd)
	sharedCmd.Flags().BoolVar(&sharedHTML, "html", false, "Render the note content as HTML")
}
