// Package notify covers the three notification surfaces: transient
// toasts, the persistent in-app notification list, and outbound
// reminders over e-mail and SMS.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity of a toast.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Toast is one transient message. Toasts stack in arrival order and
// dismiss themselves after the configured duration.
type Toast struct {
	ID       string    `json:"id"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	ShownAt  time.Time `json:"shownAt"`
}

// Listener observes toast lifecycle events.
type Listener interface {
	ToastShown(t Toast)
	ToastDismissed(id string)
}

// Toaster manages the active toast stack. Safe for concurrent use.
type Toaster struct {
	mu        sync.Mutex
	duration  time.Duration
	active    []Toast
	timers    map[string]*time.Timer
	listeners []Listener
	closed    bool
}

func NewToaster(duration time.Duration) *Toaster {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return &Toaster{
		duration: duration,
		timers:   make(map[string]*time.Timer),
	}
}

// Subscribe registers a listener for show/dismiss events.
func (t *Toaster) Subscribe(l Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, l)
}

// Show pushes a toast and schedules its auto-dismiss. The toast id is
// returned so callers can dismiss early.
func (t *Toaster) Show(message string, severity Severity) string {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ""
	}

	toast := Toast{
		ID:       uuid.New().String(),
		Message:  message,
		Severity: severity,
		ShownAt:  time.Now().UTC(),
	}
	t.active = append(t.active, toast)
	t.timers[toast.ID] = time.AfterFunc(t.duration, func() {
		t.Dismiss(toast.ID)
	})
	listeners := append([]Listener(nil), t.listeners...)
	t.mu.Unlock()

	for _, l := range listeners {
		l.ToastShown(toast)
	}
	return toast.ID
}

// Success, Info, Warning and Error are shorthands for Show.
func (t *Toaster) Success(message string) string { return t.Show(message, SeveritySuccess) }
func (t *Toaster) Info(message string) string    { return t.Show(message, SeverityInfo) }
func (t *Toaster) Warning(message string) string { return t.Show(message, SeverityWarning) }

func (t *Toaster) Error(message string) string {
	return t.Show(message, SeverityError)
}

// Dismiss removes a toast before its timer fires. Dismissing an
// unknown or already-dismissed id is a no-op.
func (t *Toaster) Dismiss(id string) {
	t.mu.Lock()
	timer, ok := t.timers[id]
	if !ok {
		t.mu.Unlock()
		return
	}
	timer.Stop()
	delete(t.timers, id)
	for i, toast := range t.active {
		if toast.ID == id {
			t.active = append(t.active[:i], t.active[i+1:]...)
			break
		}
	}
	listeners := append([]Listener(nil), t.listeners...)
	t.mu.Unlock()

	for _, l := range listeners {
		l.ToastDismissed(id)
	}
}

// Active returns a snapshot of the visible toasts in arrival order.
func (t *Toaster) Active() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Toast(nil), t.active...)
}

// Close stops all timers and rejects further toasts.
func (t *Toaster) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	for id, timer := range t.timers {
		timer.Stop()
		delete(t.timers, id)
	}
	t.active = nil
}
