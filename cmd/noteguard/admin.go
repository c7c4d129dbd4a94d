package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/noteguard/internal/platform"
	"github.com/aretw0/noteguard/pkg/guard"
	"github.com/aretw0/noteguard/pkg/notify"
)

var (
	cleanupHours int
	cleanupRun   bool
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administer users and notes (administrators only)",
}

// openAdmin opens the admin page, exiting unless the session is an administrator's.
func openAdmin(cmd *cobra.Command) *platform.App {
	app := openApp(cmd)
	enter(app, guard.PathAdmin)
	return app
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List all accounts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openAdmin(cmd)
		defer app.Close()

		users, err := app.Client.ListAllUsers(app.Navigator.Context())
		check(app, "Failed to load admin data", err)
		if jsonOutput {
			printJSON(users)
			return
		}
		for _, u := range users {
			fmt.Fprintf(stdout, "%d - %s <%s> %s\n", u.ID, u.Username, u.Email, u.Role)
		}
	},
}

var adminNotesCmd = &cobra.Command{
	Use:   "notes",
	Short: "List every note",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openAdmin(cmd)
		defer app.Close()

		notes, err := app.Client.ListAllNotes(app.Navigator.Context())
		check(app, "Failed to load admin data", err)
		if jsonOutput {
			printJSON(notes)
			return
		}
		now := time.Now()
		for _, n := range notes {
			owner := ""
			if n.User != nil {
				owner = " by " + n.User.DisplayName()
			}
			fmt.Fprintln(stdout, noteLine(n, now) + owner)
		}
	},
}

var adminDeleteUserCmd = &cobra.Command{
	Use:   "delete-user [id]",
	Short: "Delete an account and its notes",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])
		app := openAdmin(cmd)
		defer app.Close()

		err := app.Client.DeleteUser(app.Navigator.Context(), id)
		check(app, "Failed to delete user", err)
		app.Notifier.Notify(notify.Success("User deleted successfully"))
	},
}

var adminDeleteNoteCmd = &cobra.Command{
	Use:   "delete-note [id]",
	Short: "Delete any note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])
		app := openAdmin(cmd)
		defer app.Close()

		err := app.Client.AdminDeleteNote(app.Navigator.Context(), id)
		check(app, "Failed to delete note", err)
		app.Notifier.Notify(notify.Success("Note deleted successfully"))
	},
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show user and note counts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openAdmin(cmd)
		defer app.Close()

		stats, err := app.Client.DashboardStats(app.Navigator.Context())
		check(app, "Failed to load admin data", err)
		if jsonOutput {
			printJSON(stats)
			return
		}
		fmt.Fprintf(stdout, "Users: %d (%d admins, %d regular)\n",
			stats.UserStats.TotalUsers, stats.UserStats.AdminUsers, stats.UserStats.RegularUsers)
		fmt.Fprintf(stdout, "Notes: %d (%d shared, %d expired)\n",
			stats.NoteStats.TotalNotes, stats.NoteStats.SharedNotes, stats.NoteStats.ExpiredNotes)
	},
}

var adminCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Report notes about to expire, or purge expired notes with --run",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openAdmin(cmd)
		defer app.Close()
		ctx := app.Navigator.Context()

		if cleanupRun {
			err := app.Client.Cleanup(ctx)
			check(app, "Cleanup failed", err)
			app.Notifier.Notify(notify.Success("Expired notes cleaned up"))
			return
		}

		stats, err := app.Client.CleanupStats(ctx, cleanupHours)
		check(app, "Failed to load cleanup stats", err)
		if jsonOutput {
			printJSON(stats)
			return
		}
		fmt.Fprintf(stdout, "%d notes expire within %d hours\n", stats.NotesExpiringCount, stats.HoursAhead)
	},
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminUsersCmd, adminNotesCmd, adminDeleteUserCmd, adminDeleteNoteCmd, adminStatsCmd, adminCleanupCmd)
	adminCleanupCmd.Flags().IntVar(&cleanupHours, "hours", 24, "Look-ahead window for expiring notes")
	adminCleanupCmd.Flags().BoolVar(&cleanupRun, "run", false, "Delete expired notes now")
}
