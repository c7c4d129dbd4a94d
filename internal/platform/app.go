// Package platform assembles the client's components into an App.
package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/noteguard/internal/config"
	"github.com/aretw0/noteguard/pkg/api"
	"github.com/aretw0/noteguard/pkg/guard"
	"github.com/aretw0/noteguard/pkg/loading"
	"github.com/aretw0/noteguard/pkg/notify"
	"github.com/aretw0/noteguard/pkg/session"
	"github.com/aretw0/noteguard/pkg/storage"
)

// App is a fully wired client.
type App struct {
	Config    config.Config
	Logger    *slog.Logger
	Store     storage.Store
	Tracker   *loading.Tracker
	Notifier  notify.Notifier
	Guard     *guard.Guard
	Navigator *guard.Navigator
	Client    *api.Client
	Session   *session.Session
	Registry  *prometheus.Registry

	watch     bool
	mu        sync.Mutex
	cancel    context.CancelFunc
	closed    bool
	startOnce sync.Once
	startErr  error
	closeOnce sync.Once
}

// ErrClosed is returned by Start after Close.
var ErrClosed = errors.New("app is closed")

// New wires an App. It performs no I/O; call Start to restore the session.
func New(opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	cfg := config.Default()
	if o.config != nil {
		cfg = *o.config
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	store := o.store
	if store == nil {
		store = storage.NewFileStore(cfg.SessionFile, logger)
	}

	notifier := o.notifier
	if notifier == nil {
		notifier = notify.NewWriter(os.Stderr, logger)
	}

	registry := o.registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	g, err := guard.New(o.routes)
	if err != nil {
		return nil, fmt.Errorf("invalid routes: %w", err)
	}
	nav := guard.NewNavigator(g, logger)

	clientOpts := []api.Option{
		api.WithStore(store),
		api.WithNotifier(notifier),
		api.WithRedirector(nav),
		api.WithLogger(logger),
		api.WithMetrics(api.NewMetrics(registry)),
		api.WithTimeout(cfg.Timeout),
		api.WithOrigin(cfg.Origin),
		api.WithLoginPath(guard.PathLogin),
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, api.WithHTTPClient(o.httpClient))
	}
	client, err := api.New(cfg.BaseURL(), clientOpts...)
	if err != nil {
		return nil, err
	}

	tracker := loading.New()
	sess := session.New(client, store,
		session.WithTracker(tracker),
		session.WithNotifier(notifier),
		session.WithLogger(logger),
	)
	// Nothing in memory survives an authentication loss.
	nav.OnForced(sess.Invalidate)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Tracker:   tracker,
		Notifier:  notifier,
		Guard:     g,
		Navigator: nav,
		Client:    client,
		Session:   sess,
		Registry:  registry,
		watch:     o.watch,
	}, nil
}

// Start restores the persisted session and, when enabled, follows changes
// other processes make to it. Background work stops on Close or when ctx ends.
// Only the first call does anything; later calls return its result.
func (a *App) Start(ctx context.Context) error {
	a.startOnce.Do(func() {
		a.startErr = a.start(ctx)
	})
	return a.startErr
}

func (a *App) start(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.mu.Unlock()

	a.Session.Initialize(ctx)

	fs, ok := a.Store.(*storage.FileStore)
	if !a.watch || !ok {
		return nil
	}
	changes, err := fs.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch session: %w", err)
	}
	lifecycle.Go(ctx, func(ctx context.Context) error {
		a.Session.Sync(ctx, changes)
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		a.Logger.Error("session sync panic", "error", err)
	}))
	return nil
}

// Ready starts the App and waits for the session to settle.
func (a *App) Ready(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}
	return a.Session.Wait(ctx)
}

// Close stops background work. It is safe to call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		if a.cancel != nil {
			a.cancel()
		}
		a.mu.Unlock()
		a.Session.Teardown()
	})
}

// Visit resolves path for the current session, as a page load would.
func (a *App) Visit(path string) guard.Decision {
	return a.Navigator.Navigate(path, a.Session.Snapshot())
}

// Component is a part of the App that reports its state.
type Component interface {
	introspection.Introspectable
	introspection.Component
}

// Components lists the introspectable parts of the App.
func (a *App) Components() []Component {
	out := []Component{a.Session, a.Navigator, a.Tracker, a.Client}
	if c, ok := a.Store.(Component); ok {
		out = append(out, c)
	}
	return out
}
