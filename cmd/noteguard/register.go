package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/noteguard/pkg/core"
	"github.com/aretw0/noteguard/pkg/guard"
)

var (
	registerUsername string
	registerEmail    string
	registerPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp(cmd)
		defer app.Close()
		enter(app, guard.PathRegister)

		account := core.NewAccount{Username: registerUsername, Email: registerEmail, Password: registerPassword}
		if account.Username == "" {
			account.Username = prompt("Username: ")
		}
		if account.Email == "" {
			account.Email = prompt("Email: ")
		}
		confirm := account.Password
		if account.Password == "" {
			account.Password = promptPassword("Password: ")
			confirm = promptPassword("Confirm password: ")
		}
		check(app, "Invalid registration", account.Validate(confirm))

		err := app.Session.Register(cmd.Context(), account)
		check(app, "Registration failed", err)

		user, _ := app.Session.Identity()
		fmt.Fprintf(stdout, "Logged in as %s\n", user.DisplayName())
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVar(&registerUsername, "username", "", "Username (at least 3 characters)")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Email address")
	registerCmd.Flags().StringVarP(&registerPassword, "password", "p", "", "Password (prompted when omitted)")
}
