package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/noteguard/internal/config"
	"github.com/aretw0/noteguard/internal/platform"
	"github.com/aretw0/noteguard/pkg/api"
	"github.com/aretw0/noteguard/pkg/guard"
	"github.com/aretw0/noteguard/pkg/notify"
)

var stdin = bufio.NewReader(os.Stdin)

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	file := configFile
	if file == "" {
		file = config.DefaultFile()
	}
	cfg, err := config.Load(config.Sources{File: file, DotEnv: envFile})
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL = apiURL
	}
	if flags.Changed("env") {
		cfg.Environment = environment
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeout
	}
	return cfg, cfg.Validate()
}

// openApp builds the client and restores the persisted session.
func openApp(cmd *cobra.Command) *platform.App {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fatal("Error loading configuration", err)
	}

	logger := slog.Default()
	app, err := platform.New(
		platform.WithConfig(cfg),
		platform.WithLogger(logger),
		platform.WithNotifier(notify.NewWriter(stderr, logger)),
	)
	if err != nil {
		fatal("Error initializing client", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()
	if err := app.Ready(ctx); err != nil {
		fatal("Error restoring session", err)
	}
	return app
}

// enter opens path through the route guard and exits unless it renders.
func enter(app *platform.App, path string) {
	d := app.Visit(path)
	switch d.Action {
	case guard.Render:
		return
	case guard.RedirectLogin:
		fmt.Fprintln(stderr, "Not logged in. Run 'noteguard login' first.")
	case guard.RedirectHome:
		fmt.Fprintln(stderr, "Administrator access required.")
	case guard.Forced:
	default:
		fmt.Fprintf(stderr, "Cannot open %s (%s)\n", path, d.Action)
	}
	app.Close()
	exit(1)
}

// check exits on err. Failures already reported by the HTTP layer only set
// the exit status.
func check(app *platform.App, msg string, err error) {
	if err == nil {
		return
	}
	app.Close()
	if api.IsNotified(err) {
		exit(1)
	}
	fatal(msg, err)
}

func printJSON(v any) {
	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fatal("Error encoding JSON", err)
	}
}

func prompt(label string) string {
	fmt.Fprint(stderr, label)
	line, _ := stdin.ReadString('\n')
	return strings.TrimSpace(line)
}

// promptPassword reads a password without echo when stdin is a terminal.
func promptPassword(label string) string {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(label)
	}
	fmt.Fprint(stderr, label)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(stderr)
	if err != nil {
		fatal("Error reading password", err)
	}
	return string(pw)
}
