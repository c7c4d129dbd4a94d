package session

import (
	"log/slog"

	"github.com/aretw0/noteguard/pkg/loading"
	"github.com/aretw0/noteguard/pkg/notify"
)

// Option configures a Session.
type Option func(*Session)

// WithTracker shares a loading tracker with other components.
func WithTracker(t *loading.Tracker) Option {
	return func(s *Session) {
		s.tracker = t
	}
}

// WithNotifier sets where session notices are delivered.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Session) {
		s.notifier = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}
