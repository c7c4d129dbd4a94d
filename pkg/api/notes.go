package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aretw0/noteguard/pkg/core"
)

func checkID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: note id must be positive, got %d", core.ErrInvalidArgument, id)
	}
	return nil
}

func hoursQuery(hours int) url.Values {
	return url.Values{"expirationHours": []string{strconv.Itoa(hours)}}
}

// ListOwnNotes returns the notes of the authenticated user.
func (c *Client) ListOwnNotes(ctx context.Context) ([]core.Note, error) {
	env, err := call[[]core.Note](ctx, c, request{method: http.MethodGet, path: "/notes/user"})
	return payload(env, err, "Failed to load notes")
}

// GetNote fetches one note owned by (or visible to) the authenticated user.
func (c *Client) GetNote(ctx context.Context, id int64) (core.Note, error) {
	if err := checkID(id); err != nil {
		return core.Note{}, err
	}
	env, err := call[core.Note](ctx, c, request{method: http.MethodGet, path: fmt.Sprintf("/notes/%d", id)})
	return payload(env, err, "Failed to load note")
}

// CreateNote stores a new note.
func (c *Client) CreateNote(ctx context.Context, fields core.NoteFields) (core.Note, error) {
	env, err := call[core.Note](ctx, c, request{method: http.MethodPost, path: "/notes", body: fields})
	return payload(env, err, "Failed to create note")
}

// CreateNoteExpiringIn stores a new note that the backend expires after hours.
func (c *Client) CreateNoteExpiringIn(ctx context.Context, fields core.NoteFields, hours int) (core.Note, error) {
	if hours <= 0 {
		return core.Note{}, fmt.Errorf("%w: expiration hours must be positive", core.ErrInvalidArgument)
	}
	env, err := call[core.Note](ctx, c, request{
		method: http.MethodPost,
		path:   "/notes/with-expiration",
		query:  hoursQuery(hours),
		body:   fields,
	})
	return payload(env, err, "Failed to create note")
}

// UpdateNote changes the given fields of a note.
func (c *Client) UpdateNote(ctx context.Context, id int64, fields core.NoteFields) (core.Note, error) {
	if err := checkID(id); err != nil {
		return core.Note{}, err
	}
	env, err := call[core.Note](ctx, c, request{method: http.MethodPut, path: fmt.Sprintf("/notes/%d", id), body: fields})
	return payload(env, err, "Failed to update note")
}

// DeleteNote removes a note.
func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	if err := checkID(id); err != nil {
		return err
	}
	env, err := call[struct{}](ctx, c, request{method: http.MethodDelete, path: fmt.Sprintf("/notes/%d", id)})
	_, err = payload(env, err, "Failed to delete note")
	return err
}

// ShareNote issues a public share link valid for expirationHours.
func (c *Client) ShareNote(ctx context.Context, id int64, expirationHours int) (core.ShareResult, error) {
	if err := checkID(id); err != nil {
		return core.ShareResult{}, err
	}
	if expirationHours <= 0 {
		return core.ShareResult{}, fmt.Errorf("%w: share hours must be positive", core.ErrInvalidArgument)
	}
	env, err := call[core.ShareResult](ctx, c, request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/notes/%d/share", id),
		query:  hoursQuery(expirationHours),
		body:   map[string]int{"expirationHours": expirationHours},
	})
	return payload(env, err, "Failed to share note")
}

// RevokeShare invalidates the note's share link.
func (c *Client) RevokeShare(ctx context.Context, id int64) error {
	if err := checkID(id); err != nil {
		return err
	}
	env, err := call[struct{}](ctx, c, request{method: http.MethodDelete, path: fmt.Sprintf("/notes/%d/share", id)})
	_, err = payload(env, err, "Failed to revoke share link")
	return err
}

// GetSharedNote reads a note through its share token. The request is sent
// without credentials.
func (c *Client) GetSharedNote(ctx context.Context, shareToken string) (core.Note, error) {
	if shareToken == "" {
		return core.Note{}, fmt.Errorf("%w: share token is empty", core.ErrInvalidArgument)
	}
	env, err := call[core.Note](ctx, c, request{
		method: http.MethodGet,
		path:   "/notes/share/" + url.PathEscape(shareToken),
		public: true,
	})
	return payload(env, err, "This shared note is no longer available or has expired.")
}
