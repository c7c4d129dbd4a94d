package platform

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/noteguard/internal/config"
	"github.com/aretw0/noteguard/pkg/guard"
	"github.com/aretw0/noteguard/pkg/notify"
	"github.com/aretw0/noteguard/pkg/storage"
)

// options holds the internal configuration of an App.
type options struct {
	config     *config.Config
	store      storage.Store
	notifier   notify.Notifier
	httpClient *http.Client
	logger     *slog.Logger
	registry   *prometheus.Registry
	routes     []guard.Route
	watch      bool
}

// Option defines a functional option for configuring an App.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		routes: guard.DefaultRoutes(),
	}
}

// WithConfig sets the resolved settings. Defaults to config.Default().
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		o.config = &cfg
	}
}

// WithStore replaces the session file with a custom store (e.g. storage.MemoryStore).
func WithStore(s storage.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithNotifier sets where notifications are delivered. Defaults to stderr.
func WithNotifier(n notify.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithHTTPClient sets the transport used to reach the backend.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithLogger sets the logger shared by all components.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegistry sets the registry client metrics are registered on.
func WithRegistry(r *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithRoutes replaces the routing table.
func WithRoutes(routes []guard.Route) Option {
	return func(o *options) {
		o.routes = routes
	}
}

// WithWatch makes Start follow session changes made by other processes.
// It only applies when the store is a storage.FileStore.
func WithWatch(enabled bool) Option {
	return func(o *options) {
		o.watch = enabled
	}
}
