package guard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/introspection"
)

const maxRedirects = 8

// Navigator holds the client's current location. Ordinary navigation is
// checked by the Guard; ForceNavigate is the terminal transition taken after
// an authentication loss.
type Navigator struct {
	guard  *Guard
	logger *slog.Logger

	mu       sync.Mutex
	current  string
	returnTo string
	forced   bool
	ctx      context.Context
	cancel   context.CancelFunc
	hooks    []func()
}

// NewNavigator creates a Navigator positioned at the root path.
func NewNavigator(g *Guard, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Navigator{
		guard:   g,
		logger:  logger,
		current: PathRoot,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// OnForced registers fn to run after every forced navigation.
func (n *Navigator) OnForced(fn func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hooks = append(n.hooks, fn)
}

// Context is cancelled by ForceNavigate, aborting any work bound to it.
func (n *Navigator) Context() context.Context {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ctx
}

// Current returns the current location.
func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// IsForced reports whether the navigator is in the terminal forced state.
func (n *Navigator) IsForced() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.forced
}

// Navigate requests path with the session in state snap, following declared
// redirects. While forced, every navigation resolves to Forced.
func (n *Navigator) Navigate(path string, snap Snapshot) Decision {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.forced {
		return Decision{Action: Forced, Path: path, Target: n.current}
	}

	d := n.guard.Resolve(path, snap)
	for hops := 0; d.Action == Redirect && hops < maxRedirects; hops++ {
		d = n.guard.Resolve(d.Target, snap)
	}

	switch d.Action {
	case Render:
		n.current = d.Path
	case RedirectLogin:
		n.returnTo = d.ReturnTo
		n.current = d.Target
	case RedirectHome:
		n.current = d.Target
	}

	n.logger.Debug("navigate", "path", path, "action", d.Action.String(), "current", n.current)
	return d
}

// ReturnTo is the path remembered by the last login redirect, if any.
func (n *Navigator) ReturnTo() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.returnTo
}

// ConsumeReturnTo returns the path remembered by the last login redirect,
// or the home page, and forgets it.
func (n *Navigator) ConsumeReturnTo() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	p := n.returnTo
	n.returnTo = ""
	if p == "" {
		return PathHome
	}
	return p
}

// ForceNavigate moves to path unconditionally, cancels the navigator context
// and runs the OnForced hooks. Nothing held in memory is trusted afterwards.
func (n *Navigator) ForceNavigate(path string) {
	n.mu.Lock()
	n.forced = true
	n.current = path
	n.returnTo = ""
	n.cancel()
	hooks := append([]func(){}, n.hooks...)
	n.mu.Unlock()

	n.logger.Info("forced navigation", "path", path)
	for _, fn := range hooks {
		fn()
	}
}

// Reset leaves the forced state, as a full page load would, with a fresh context.
func (n *Navigator) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.forced {
		return
	}
	n.forced = false
	n.ctx, n.cancel = context.WithCancel(context.Background())
}

// NavigatorState is the introspection view of a Navigator.
type NavigatorState struct {
	Current  string `json:"current"`
	ReturnTo string `json:"return_to,omitempty"`
	Forced   bool   `json:"forced"`
}

// State implements introspection.Introspectable.
func (n *Navigator) State() any {
	n.mu.Lock()
	defer n.mu.Unlock()
	return NavigatorState{Current: n.current, ReturnTo: n.returnTo, Forced: n.forced}
}

// ComponentType implements introspection.Component.
func (n *Navigator) ComponentType() string {
	return "navigator"
}

var _ introspection.Introspectable = (*Navigator)(nil)
var _ introspection.Component = (*Navigator)(nil)
