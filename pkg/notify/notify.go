// Package notify delivers short user-visible notifications, the terminal
// counterpart of toast messages.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

// Notification is a single user-visible message.
type Notification struct {
	Level   Level
	Message string
}

// Notifier delivers notifications.
type Notifier interface {
	Notify(n Notification)
}

// Success builds a success notification.
func Success(msg string) Notification { return Notification{Level: LevelSuccess, Message: msg} }

// Info builds an informational notification.
func Info(msg string) Notification { return Notification{Level: LevelInfo, Message: msg} }

// Error builds an error notification.
func Error(msg string) Notification { return Notification{Level: LevelError, Message: msg} }

// Writer prints notifications line by line. Safe for concurrent use.
type Writer struct {
	mu     sync.Mutex
	out    io.Writer
	logger *slog.Logger
}

// NewWriter creates a Writer printing to out. A nil logger disables logging.
func NewWriter(out io.Writer, logger *slog.Logger) *Writer {
	return &Writer{out: out, logger: logger}
}

// Notify implements Notifier.
func (w *Writer) Notify(n Notification) {
	w.mu.Lock()
	defer w.mu.Unlock()

	prefix := "•"
	switch n.Level {
	case LevelSuccess:
		prefix = "✓"
	case LevelError:
		prefix = "✗"
	}
	fmt.Fprintf(w.out, "%s %s\n", prefix, n.Message)

	if w.logger != nil {
		w.logger.Debug("notification", "level", string(n.Level), "message", n.Message)
	}
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify implements Notifier.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Messages returns the recorded messages in order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.items))
	for _, n := range r.items {
		out = append(out, n.Message)
	}
	return out
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}

type discard struct{}

func (discard) Notify(Notification) {}

// Discard drops every notification.
var Discard Notifier = discard{}
