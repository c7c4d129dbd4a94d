package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aretw0/noteguard/pkg/core"
)

// ListAllUsers returns every account. Administrators only.
func (c *Client) ListAllUsers(ctx context.Context) ([]core.User, error) {
	env, err := call[[]core.User](ctx, c, request{method: http.MethodGet, path: "/admin/users"})
	return payload(env, err, "Failed to load users")
}

// ListAllNotes returns every note. Administrators only.
func (c *Client) ListAllNotes(ctx context.Context) ([]core.Note, error) {
	env, err := call[[]core.Note](ctx, c, request{method: http.MethodGet, path: "/admin/notes"})
	return payload(env, err, "Failed to load notes")
}

// DeleteUser removes an account and its notes.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: user id must be positive, got %d", core.ErrInvalidArgument, id)
	}
	env, err := call[struct{}](ctx, c, request{method: http.MethodDelete, path: fmt.Sprintf("/admin/users/%d", id)})
	_, err = payload(env, err, "Failed to delete user")
	return err
}

// AdminDeleteNote removes any user's note.
func (c *Client) AdminDeleteNote(ctx context.Context, id int64) error {
	if err := checkID(id); err != nil {
		return err
	}
	env, err := call[struct{}](ctx, c, request{method: http.MethodDelete, path: fmt.Sprintf("/admin/notes/%d", id)})
	_, err = payload(env, err, "Failed to delete note")
	return err
}

// UserStats returns account counts.
func (c *Client) UserStats(ctx context.Context) (core.UserStats, error) {
	env, err := call[core.UserStats](ctx, c, request{method: http.MethodGet, path: "/admin/stats/users"})
	return payload(env, err, "Failed to load user statistics")
}

// NoteStats returns note counts.
func (c *Client) NoteStats(ctx context.Context) (core.NoteStats, error) {
	env, err := call[core.NoteStats](ctx, c, request{method: http.MethodGet, path: "/admin/stats/notes"})
	return payload(env, err, "Failed to load note statistics")
}

// DashboardStats returns the combined admin overview.
func (c *Client) DashboardStats(ctx context.Context) (core.DashboardStats, error) {
	env, err := call[core.DashboardStats](ctx, c, request{method: http.MethodGet, path: "/admin/dashboard"})
	return payload(env, err, "Failed to load dashboard")
}

// Cleanup triggers immediate removal of expired notes and share tokens.
func (c *Client) Cleanup(ctx context.Context) error {
	env, err := call[string](ctx, c, request{method: http.MethodPost, path: "/notes/admin/cleanup"})
	_, err = payload(env, err, "Failed to perform cleanup")
	return err
}

// CleanupStats counts notes expiring within the next hours.
func (c *Client) CleanupStats(ctx context.Context, hours int) (core.CleanupStats, error) {
	if hours <= 0 {
		return core.CleanupStats{}, fmt.Errorf("%w: hours must be positive", core.ErrInvalidArgument)
	}
	env, err := call[core.CleanupStats](ctx, c, request{
		method: http.MethodGet,
		path:   "/notes/admin/cleanup/stats",
		query:  url.Values{"hours": []string{strconv.Itoa(hours)}},
	})
	return payload(env, err, "Failed to get cleanup statistics")
}
