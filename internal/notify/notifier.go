package notify

import (
	"sync"
	"time"

	"github.com/ashendes/pos-terminal/internal/metrics"
	log "github.com/sirupsen/logrus"
)

// Type classifies a notification
type Type string

// Notification types
const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeInfo    Type = "info"
)

// DefaultTTL is how long a notification stays visible
const DefaultTTL = 3 * time.Second

// Notification is a short message shown to the operator
type Notification struct {
	Message string    `json:"message"`
	Type    Type      `json:"type"`
	ShownAt time.Time `json:"shown_at"`
}

// Notifier holds a single notification slot. A new notification replaces
// the current one and restarts the dismiss timer.
type Notifier struct {
	mu        sync.Mutex
	ttl       time.Duration
	current   *Notification
	timer     *time.Timer
	seq       uint64
	listeners []func(Notification)
}

// NewNotifier creates a notifier; non-positive ttl uses DefaultTTL
func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Notifier{ttl: ttl}
}

// Show replaces the visible notification
func (n *Notifier) Show(message string, kind Type) {
	note := Notification{Message: message, Type: kind, ShownAt: time.Now()}

	n.mu.Lock()
	n.seq++
	seq := n.seq
	n.current = &note
	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(n.ttl, func() { n.dismiss(seq) })
	listeners := make([]func(Notification), len(n.listeners))
	copy(listeners, n.listeners)
	n.mu.Unlock()

	metrics.NotificationsTotal.WithLabelValues(string(kind)).Inc()
	log.WithFields(log.Fields{
		"type":    kind,
		"message": message,
	}).Info("Notification")

	for _, listener := range listeners {
		listener(note)
	}
}

func (n *Notifier) Success(message string) { n.Show(message, TypeSuccess) }

func (n *Notifier) Error(message string) { n.Show(message, TypeError) }

func (n *Notifier) Info(message string) { n.Show(message, TypeInfo) }

// Current returns the visible notification, if any
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}

// Dismiss clears the slot immediately
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.clearLocked()
}

// Subscribe registers fn to receive every notification as it is shown.
// fn runs on the caller's goroutine and must not call back into the notifier's Show.
func (n *Notifier) Subscribe(fn func(Notification)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, fn)
}

// Stop cancels the pending dismiss timer
func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

// a stale timer must not clear a newer notification
func (n *Notifier) dismiss(seq uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if seq != n.seq {
		return
	}
	n.clearLocked()
}

func (n *Notifier) clearLocked() {
	n.current = nil
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

// Recorder collects notifications for inspection, typically in tests and the API event log
type Recorder struct {
	mu    sync.Mutex
	limit int
	notes []Notification
}

// NewRecorder keeps at most limit notifications; zero keeps all
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

// Record appends a notification. It matches the Subscribe signature.
func (r *Recorder) Record(note Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note)
	if r.limit > 0 && len(r.notes) > r.limit {
		r.notes = r.notes[len(r.notes)-r.limit:]
	}
}

// All returns a copy of the recorded notifications
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.notes))
	copy(out, r.notes)
	return out
}

// Messages returns just the recorded message texts
func (r *Recorder) Messages() []string {
	notes := r.All()
	out := make([]string, 0, len(notes))
	for _, note := range notes {
		out = append(out, note.Message)
	}
	return out
}

// Last returns the most recent notification
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return Notification{}, false
	}
	return r.notes[len(r.notes)-1], true
}
