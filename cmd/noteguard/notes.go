package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/noteguard/pkg/core"
	"github.com/aretw0/noteguard/pkg/render"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Manage your notes",
}

func init() {
	rootCmd.AddCommand(notesCmd)
}

func parseID(arg string) int64 {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		fatal("Invalid note id", fmt.Errorf("%q is not a positive integer", arg))
	}
	return id
}

func noteLine(n core.Note, now time.Time) string {
	line := fmt.Sprintf("%d - %s", n.ID, n.Title)
	if badges := render.Badges(n, now); len(badges) > 0 {
		line += " [" + strings.Join(badges, ", ") + "]"
	}
	return line
}

func printNote(n core.Note, now time.Time) {
	fmt.Fprintln(stdout, noteLine(n, now))
	fmt.Fprintf(stdout, "Status:  %s\n", render.NoteStatus(n, now))
	fmt.Fprintf(stdout, "Updated: %s\n", render.FormatDate(&n.UpdatedAt))
	if n.IsExpired(now) {
		fmt.Fprintln(stdout, "This note has expired")
	} else if exp := render.FormatDate(n.ExpirationTime); exp != "" {
		fmt.Fprintf(stdout, "Expires: %s\n", exp)
	}
	if n.IsShared() {
		line := fmt.Sprintf("Shared:  %s", n.ShareToken)
		if exp := render.FormatDate(n.ShareExpirationTime); exp != "" {
			line += " (share expires on " + exp + ")"
		}
		fmt.Fprintln(stdout, line)
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, n.Content)
}
