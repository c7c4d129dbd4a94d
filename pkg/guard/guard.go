// Package guard decides which page a navigation may render, given the
// current session snapshot, and tracks where the client currently is.
package guard

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Well-known paths.
const (
	PathLogin    = "/login"
	PathHome     = "/dashboard"
	PathRegister = "/register"
	PathAdmin    = "/admin"
	PathRoot     = "/"
	notePrefix   = "/note/"
	sharedPrefix = "/shared/"
	fallbackGlob = "**"
)

// Snapshot is the part of the session state the guard depends on.
type Snapshot struct {
	Authenticated bool
	Admin         bool
	Initializing  bool
}

// Action is the outcome of resolving a navigation.
type Action int

const (
	// Render shows the requested page.
	Render Action = iota
	// RedirectLogin sends an anonymous user to the login page, remembering ReturnTo.
	RedirectLogin
	// RedirectHome sends an authenticated non-admin away from an admin page.
	RedirectHome
	// Redirect follows a redirect declared by the route table.
	Redirect
	// Wait means the session is still initializing; render nothing yet.
	Wait
	// Forced is the terminal state entered after authentication loss.
	Forced
)

func (a Action) String() string {
	switch a {
	case Render:
		return "render"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	case Redirect:
		return "redirect"
	case Wait:
		return "wait"
	case Forced:
		return "forced"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Route is one entry of the routing table.
type Route struct {
	Name          string
	Pattern       string
	Public        bool
	RequiresAdmin bool
	// RedirectTo, when set, makes the route a pure redirect.
	RedirectTo string
}

// Decision is the guard's answer for a path.
type Decision struct {
	Action   Action
	Route    Route
	Path     string
	Target   string
	ReturnTo string
}

// DefaultRoutes is the client's routing table. Order matters: the first
// matching pattern wins.
func DefaultRoutes() []Route {
	return []Route{
		{Name: "root", Pattern: PathRoot, Public: true, RedirectTo: PathHome},
		{Name: "login", Pattern: PathLogin, Public: true},
		{Name: "register", Pattern: PathRegister, Public: true},
		{Name: "dashboard", Pattern: PathHome},
		{Name: "note", Pattern: notePrefix + "*"},
		{Name: "shared", Pattern: sharedPrefix + "*", Public: true},
		{Name: "admin", Pattern: PathAdmin, RequiresAdmin: true},
		{Name: "fallback", Pattern: fallbackGlob, Public: true, RedirectTo: PathHome},
	}
}

// Guard resolves paths against a routing table.
type Guard struct {
	routes []Route
}

// New creates a Guard. Patterns are validated up front.
func New(routes []Route) (*Guard, error) {
	for _, r := range routes {
		if !doublestar.ValidatePattern(r.Pattern) {
			return nil, fmt.Errorf("route %q: invalid pattern %q", r.Name, r.Pattern)
		}
	}
	return &Guard{routes: append([]Route(nil), routes...)}, nil
}

// Match returns the first route whose pattern matches path.
func (g *Guard) Match(path string) (Route, bool) {
	for _, r := range g.routes {
		if ok, _ := doublestar.Match(r.Pattern, path); ok {
			return r, true
		}
	}
	return Route{}, false
}

// Resolve decides what happens when path is requested with the session in
// state snap. It performs no I/O.
func (g *Guard) Resolve(path string, snap Snapshot) Decision {
	route, ok := g.Match(path)
	if !ok {
		// Unknown paths with no fallback configured behave like the home page.
		return Decision{Action: Redirect, Path: path, Target: PathHome}
	}

	d := Decision{Route: route, Path: path}

	if route.RedirectTo != "" {
		d.Action = Redirect
		d.Target = route.RedirectTo
		return d
	}
	if route.Public {
		d.Action = Render
		return d
	}
	if snap.Initializing {
		d.Action = Wait
		return d
	}
	if !snap.Authenticated {
		d.Action = RedirectLogin
		d.Target = PathLogin
		d.ReturnTo = path
		return d
	}
	if route.RequiresAdmin && !snap.Admin {
		d.Action = RedirectHome
		d.Target = PathHome
		return d
	}
	d.Action = Render
	return d
}

// NotePath is the page path of a note.
func NotePath(id int64) string {
	return fmt.Sprintf("%s%d", notePrefix, id)
}

// SharedPath is the page path of a shared note.
func SharedPath(token string) string {
	return sharedPrefix + token
}
