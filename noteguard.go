package noteguard

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/noteguard/internal/config"
	"github.com/aretw0/noteguard/internal/platform"
	"github.com/aretw0/noteguard/pkg/guard"
	"github.com/aretw0/noteguard/pkg/notify"
	"github.com/aretw0/noteguard/pkg/storage"
)

// --- Types ---

// App is a fully wired client.
type App = platform.App

// Config holds the client settings.
type Config = config.Config

// ConfigSources names where LoadConfig reads from.
type ConfigSources = config.Sources

// --- Configuration ---

// Option defines a functional option for configuring the client.
type Option = platform.Option

// WithConfig sets the resolved settings.
func WithConfig(cfg Config) Option {
	return platform.WithConfig(cfg)
}

// WithStore replaces the session file with a custom store.
func WithStore(s storage.Store) Option {
	return platform.WithStore(s)
}

// WithNotifier sets where notifications are delivered.
func WithNotifier(n notify.Notifier) Option {
	return platform.WithNotifier(n)
}

// WithHTTPClient sets the transport used to reach the backend.
func WithHTTPClient(c *http.Client) Option {
	return platform.WithHTTPClient(c)
}

// WithLogger sets the logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRegistry sets the registry client metrics are registered on.
func WithRegistry(r *prometheus.Registry) Option {
	return platform.WithRegistry(r)
}

// WithRoutes replaces the routing table.
func WithRoutes(routes []guard.Route) Option {
	return platform.WithRoutes(routes)
}

// WithWatch follows session changes made by other processes.
func WithWatch(enabled bool) Option {
	return platform.WithWatch(enabled)
}

// --- Factories ---

// New wires a client.
func New(opts ...Option) (*App, error) {
	return platform.New(opts...)
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return config.Default()
}

// LoadConfig resolves settings from files and the environment.
func LoadConfig(src ConfigSources) (Config, error) {
	return config.Load(src)
}
