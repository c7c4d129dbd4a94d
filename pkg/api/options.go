package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/noteguard/pkg/notify"
	"github.com/aretw0/noteguard/pkg/storage"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 10 * time.Second

// Redirector performs the hard navigation that follows an authentication loss.
type Redirector interface {
	ForceNavigate(path string)
}

type options struct {
	httpClient *http.Client
	timeout    time.Duration
	store      storage.Store
	notifier   notify.Notifier
	redirector Redirector
	logger     *slog.Logger
	metrics    *Metrics
	userAgent  string
	loginPath  string
	origin     string
}

// Option configures a Client.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		timeout:   DefaultTimeout,
		notifier:  notify.Discard,
		userAgent: "noteguard-cli",
		loginPath: "/login",
	}
}

// WithHTTPClient replaces the underlying http.Client. Its Timeout is
// overridden by WithTimeout when both are given.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithStore sets where the bearer token is read from and what gets cleared on 401.
func WithStore(s storage.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithNotifier sets the sink of status notifications.
func WithNotifier(n notify.Notifier) Option {
	return func(o *options) {
		if n != nil {
			o.notifier = n
		}
	}
}

// WithRedirector sets who performs the forced navigation on 401.
func WithRedirector(r Redirector) Option {
	return func(o *options) {
		o.redirector = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics records request counts and latencies.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithLoginPath sets the path passed to the Redirector on 401. Defaults to "/login".
func WithLoginPath(p string) Option {
	return func(o *options) {
		o.loginPath = p
	}
}

// WithOrigin sets the origin a relative base URL is resolved against.
func WithOrigin(origin string) Option {
	return func(o *options) {
		o.origin = origin
	}
}
