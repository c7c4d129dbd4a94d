package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/noteguard/pkg/guard"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp(cmd)
		defer app.Close()
		enter(app, guard.PathHome)

		user, _ := app.Session.Identity()
		if jsonOutput {
			printJSON(user)
			return
		}
		fmt.Fprintf(stdout, "%s <%s> %s\n", user.DisplayName(), user.Email, user.Role)
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
