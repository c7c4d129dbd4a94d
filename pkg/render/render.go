// Package render turns notes into the text and HTML shown to users.
package render

import (
	"bytes"
	"fmt"
	stdhtml "html"
	"time"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/aretw0/noteguard/pkg/core"
)

// PreviewLength is the number of characters of content shown on a note card.
const PreviewLength = 120

// ExpiringWindow is how close to expiration a note is flagged as expiring.
const ExpiringWindow = 24 * time.Hour

// Status is the single-word state of a note.
type Status string

const (
	StatusExpired  Status = "expired"
	StatusShared   Status = "shared"
	StatusExpiring Status = "expiring"
	StatusActive   Status = "active"
)

// NoteStatus reports the most significant state of n at now. Expiration
// takes precedence over sharing.
func NoteStatus(n core.Note, now time.Time) Status {
	switch {
	case n.IsExpired(now):
		return StatusExpired
	case n.ShareActive(now):
		return StatusShared
	case n.ExpirationTime != nil && !n.ExpirationTime.IsZero() && n.ExpirationTime.Sub(now) <= ExpiringWindow:
		return StatusExpiring
	}
	return StatusActive
}

// Badges are the labels displayed next to a note title.
func Badges(n core.Note, now time.Time) []string {
	var out []string
	if n.IsShared() {
		out = append(out, "Shared")
	}
	if n.IsExpired(now) {
		out = append(out, "Expired")
	}
	return out
}

// Preview shortens content for list views.
func Preview(content string) string {
	if utf8.RuneCountInString(content) <= PreviewLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:PreviewLength]) + "..."
}

// FormatDate renders a timestamp for display, or "" when unset.
func FormatDate(t *core.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Local().Format("Jan 2, 2006, 3:04 PM")
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// HTML renders a note as an HTML fragment: the escaped title as a heading
// followed by the Markdown content. Raw HTML in the content is not passed
// through.
func HTML(n core.Note) (string, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<h1>%s</h1>\n", stdhtml.EscapeString(n.Title))
	if err := markdown.Convert([]byte(n.Content), &buf); err != nil {
		return "", fmt.Errorf("failed to render note %d: %w", n.ID, err)
	}
	return buf.String(), nil
}
