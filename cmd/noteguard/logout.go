package main

import (
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp(cmd)
		defer app.Close()
		app.Session.Logout()
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
