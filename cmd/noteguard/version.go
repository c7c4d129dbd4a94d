package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/noteguard"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of noteguard",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(stdout, "noteguard version %s\n", strings.TrimSpace(noteguard.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
