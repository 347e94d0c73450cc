// Package notify carries user-facing notifications (toasts) emitted once per
// service operation.
package notify

import (
	"fmt"
	"io"
	"sync"
)

// Variant selects how a notification is presented.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a transient message describing the outcome of an operation.
type Notification struct {
	Title       string
	Description string
	Variant     Variant
}

// Destructive reports whether the notification describes a failure.
func (n Notification) Destructive() bool { return n.Variant == VariantDestructive }

// Success builds a default-variant notification.
func Success(title, description string) Notification {
	return Notification{Title: title, Description: description, Variant: VariantDefault}
}

// Failure builds a destructive notification.
func Failure(title, description string) Notification {
	return Notification{Title: title, Description: description, Variant: VariantDestructive}
}

// Notifier receives notifications.
type Notifier interface {
	Notify(n Notification)
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(Notification) {}

// Recorder keeps notifications in memory for inspection.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
}

// All returns a copy of every recorded notification.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Reset clears recorded notifications.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.items = nil
	r.mu.Unlock()
}

// Writer prints notifications as single lines, e.g. "[!] Error: not found".
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter constructs a Writer. A nil writer discards output.
func NewWriter(w io.Writer) *Writer {
	if w == nil {
		w = io.Discard
	}
	return &Writer{w: w}
}

func (w *Writer) Notify(n Notification) {
	marker := "[ok]"
	if n.Destructive() {
		marker = "[!]"
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if n.Description == "" {
		_, _ = fmt.Fprintf(w.w, "%s %s\n", marker, n.Title)
		return
	}
	_, _ = fmt.Fprintf(w.w, "%s %s: %s\n", marker, n.Title, n.Description)
}
