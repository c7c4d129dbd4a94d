package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

var (
	verbose     bool
	configFile  string
	envFile     string
	apiURL      string
	environment string
	timeout     time.Duration
	jsonOutput  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "noteguard",
	Short: "Command-line client for the NoteGuard notes service",
	Long: `NoteGuard keeps short notes that can expire and be shared through
time-limited links. This client signs in, manages notes and, for
administrators, users and cleanup.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(stderr, err)
		exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&configFile, "config", "", "Config file (default is the user config dir's noteguard/config.yaml)")
	flags.StringVar(&envFile, "env-file", ".env", "Dotenv file with NOTEGUARD_* settings")
	flags.StringVar(&apiURL, "api-url", "", "Backend API root, e.g. http://localhost:8080/api")
	flags.StringVar(&environment, "env", "", "Environment: development or production")
	flags.DurationVar(&timeout, "timeout", 0, "Per-request timeout")
	flags.BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}
