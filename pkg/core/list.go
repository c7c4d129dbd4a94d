package core

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SortKey selects the ordering of a note list.
type SortKey string

const (
	SortByCreated SortKey = "createdAt"
	SortByUpdated SortKey = "updatedAt"
	SortByTitle   SortKey = "title"
)

// ParseSortKey validates a user-supplied sort key. Empty means SortByCreated.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "":
		return SortByCreated, nil
	case SortByCreated, SortByUpdated, SortByTitle:
		return SortKey(s), nil
	}
	return "", fmt.Errorf("%w: unknown sort key %q", ErrInvalidArgument, s)
}

// FilterNotes keeps the notes whose title or content contains term,
// case-insensitively. An empty term keeps everything.
func FilterNotes(notes []Note, term string) []Note {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		if term == "" ||
			strings.Contains(strings.ToLower(n.Title), term) ||
			strings.Contains(strings.ToLower(n.Content), term) {
			out = append(out, n)
		}
	}
	return out
}

// SortNotes returns a sorted copy. Timestamps sort newest first, titles A-Z.
func SortNotes(notes []Note, key SortKey) []Note {
	out := append([]Note(nil), notes...)
	sort.SliceStable(out, func(i, j int) bool {
		switch key {
		case SortByTitle:
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		case SortByUpdated:
			return out[i].UpdatedAt.After(out[j].UpdatedAt.Time)
		default:
			return out[i].CreatedAt.After(out[j].CreatedAt.Time)
		}
	})
	return out
}

// CountShared counts notes carrying a share token.
func CountShared(notes []Note) int {
	count := 0
	for _, n := range notes {
		if n.IsShared() {
			count++
		}
	}
	return count
}

// CountExpiring counts notes that have an expiration time still in the future.
func CountExpiring(notes []Note, now time.Time) int {
	count := 0
	for _, n := range notes {
		if n.ExpirationTime != nil && !n.ExpirationTime.IsZero() && !n.IsExpired(now) {
			count++
		}
	}
	return count
}
