package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var routeCmd = &cobra.Command{
	Use:   "route [path]",
	Short: "Show what the route guard decides for a page path",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp(cmd)
		defer app.Close()

		d := app.Visit(args[0])
		if jsonOutput {
			printJSON(map[string]any{
				"path":     d.Path,
				"route":    d.Route.Name,
				"action":   d.Action.String(),
				"target":   d.Target,
				"returnTo": d.ReturnTo,
			})
			return
		}
		fmt.Fprintf(stdout, "%s -> %s", d.Path, d.Action)
		if d.Target != "" {
			fmt.Fprintf(stdout, " %s", d.Target)
		}
		if d.ReturnTo != "" {
			fmt.Fprintf(stdout, " (return to %s)", d.ReturnTo)
		}
		fmt.Fprintln(stdout)
	},
}

func init() {
	rootCmd.AddCommand(routeCmd)
}
