package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/noteguard/internal/platform"
	"github.com/aretw0/noteguard/pkg/guard"
	"github.com/aretw0/noteguard/pkg/session"
)

var statusDiagram bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Dump the state of the client's components",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp(cmd)
		defer app.Close()

		if statusDiagram {
			config := introspection.DefaultDiagramConfig()
			config.SecondaryID = "client"
			config.SecondaryLabel = "Client Topology"
			fmt.Fprintln(stdout, introspection.TreeDiagram(buildClientTree(app), config))
			return
		}

		if jsonOutput {
			states := map[string]any{}
			for _, c := range app.Components() {
				states[c.ComponentType()] = c.State()
			}
			printJSON(states)
			return
		}
		for _, c := range app.Components() {
			data, err := json.Marshal(c.State())
			if err != nil {
				fatal("Error encoding state", err)
			}
			fmt.Fprintf(stdout, "%-16s %s\n", c.ComponentType(), data)
		}
	},
}

type clientNode struct {
	Name     string
	Status   string
	Metadata map[string]string
	Children []clientNode
}

// buildClientTree maps component state onto the diagram's status classes.
func buildClientTree(app *platform.App) clientNode {
	sessionStatus := "suspended"
	st, _ := app.Session.State().(session.State)
	switch {
	case st.Initializing:
		sessionStatus = "starting"
	case st.Authenticated:
		sessionStatus = "running"
	}

	navStatus := "running"
	nav, _ := app.Navigator.State().(guard.NavigatorState)
	if nav.Forced {
		navStatus = "stopped"
	}

	children := []clientNode{
		{
			Name:   "Session",
			Status: sessionStatus,
			Metadata: map[string]string{
				"type": "component",
				"user": st.Username,
				"role": st.Role,
			},
		},
		{
			Name:   "Navigator",
			Status: navStatus,
			Metadata: map[string]string{
				"type":    "component",
				"current": nav.Current,
			},
		},
		{
			Name:   "API Client",
			Status: "running",
			Metadata: map[string]string{
				"type":     "process",
				"base_url": app.Client.BaseURL(),
			},
		},
	}

	return clientNode{
		Name:   "NoteGuard",
		Status: "running",
		Metadata: map[string]string{
			"type":    "container",
			"session": app.Config.SessionFile,
		},
		Children: children,
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusDiagram, "diagram", false, "Print a Mermaid diagram of the client")
}
