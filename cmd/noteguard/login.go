package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/noteguard/pkg/core"
	"github.com/aretw0/noteguard/pkg/guard"
	"github.com/aretw0/noteguard/pkg/notify"
)

var (
	loginUser     string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and remember the session",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp(cmd)
		defer app.Close()
		enter(app, guard.PathLogin)

		creds := core.Credentials{EmailOrUsername: loginUser, Password: loginPassword}
		if creds.EmailOrUsername == "" {
			creds.EmailOrUsername = prompt("Email or username: ")
		}
		if creds.Password == "" {
			creds.Password = promptPassword("Password: ")
		}
		check(app, "Login failed", creds.Validate())

		err := app.Session.Login(cmd.Context(), creds)
		check(app, "Login failed", err)

		app.Notifier.Notify(notify.Success("Login successful!"))
		user, _ := app.Session.Identity()
		fmt.Fprintf(stdout, "Logged in as %s (%s)\n", user.DisplayName(), user.Role)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginUser, "user", "u", "", "Email or username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")
}
