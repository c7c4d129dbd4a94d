package core

import "time"

// Note is a short text note owned by one user. The backend is the source of
// truth; the client only holds transient copies.
type Note struct {
	ID                  int64  `json:"id"`
	Title               string `json:"title"`
	Content             string `json:"content"`
	OwnerID             int64  `json:"ownerId"`
	User                *User  `json:"user,omitempty"`
	ExpirationTime      *Time  `json:"expirationTime,omitempty"`
	ShareToken          string `json:"shareToken,omitempty"`
	ShareExpirationTime *Time  `json:"shareExpirationTime,omitempty"`
	CreatedAt           Time   `json:"createdAt"`
	UpdatedAt           Time   `json:"updatedAt"`
}

// IsExpired reports whether the note's expiration time is at or before now.
func (n Note) IsExpired(now time.Time) bool {
	if n.ExpirationTime == nil || n.ExpirationTime.IsZero() {
		return false
	}
	return !n.ExpirationTime.After(now)
}

// IsShared reports whether a share token has been issued.
func (n Note) IsShared() bool {
	return n.ShareToken != ""
}

// ShareActive reports whether the share link is still usable at now.
func (n Note) ShareActive(now time.Time) bool {
	if !n.IsShared() {
		return false
	}
	if n.ShareExpirationTime == nil || n.ShareExpirationTime.IsZero() {
		return true
	}
	return n.ShareExpirationTime.After(now)
}

// NoteFields carries the mutable fields of a note. Nil pointers are omitted
// from the request.
type NoteFields struct {
	Title          *string    `json:"title,omitempty"`
	Content        *string    `json:"content,omitempty"`
	ExpirationTime *LocalTime `json:"expirationTime,omitempty"`
}

// ShareResult is the outcome of issuing a share link.
type ShareResult struct {
	ShareURL       string `json:"shareUrl"`
	ShareToken     string `json:"shareToken"`
	ExpirationTime *Time  `json:"expirationTime,omitempty"`
}
