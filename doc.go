// Package noteguard is the composition root of the NoteGuard client.
//
// NoteGuard is a notes service: users keep short notes that may expire and
// may be shared through time-limited public links. This module is its
// client. It keeps the authenticated session, talks to the backend's JSON
// API, and decides through a route guard which pages a session may open.
//
// Features:
//
//   - **Session Store**: explicitly constructed session with optimistic
//     restore and background token validation.
//   - **HTTP Client**: bearer authentication, uniform response envelopes and
//     a single place where failures become user notifications.
//   - **Route Guard**: pure routing decisions plus a navigator whose forced
//     navigation after a 401 discards everything held in memory.
//   - **Loading Tracker**: named busy flags for in-flight operations.
//
// Usage:
//
//	app, err := noteguard.New(noteguard.WithConfig(cfg))
//	if err != nil {
//		return err
//	}
//	defer app.Close()
//
//	if err := app.Ready(ctx); err != nil {
//		return err
//	}
//	if d := app.Visit("/dashboard"); d.Action != guard.Render {
//		// redirect to d.Target
//	}
//	notes, err := app.Client.ListOwnNotes(app.Navigator.Context())
package noteguard
