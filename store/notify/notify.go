/*
Package notify carries user-visible notifications out of the stores. Every
store failure surfaces through here; no operation fails silently.
*/
package notify

import (
	"sync"
	"time"

	"storefront/pkg/logger"

	"go.uber.org/zap"
)

// Severity of a notification.
type Severity string

const (
	Success Severity = "success"
	Info    Severity = "info"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// DefaultAutoHide is how long a notification stays visible unless the
// sender overrides it.
const DefaultAutoHide = 6 * time.Second

// Notification is one transient user-visible message.
type Notification struct {
	Message  string
	Severity Severity
	AutoHide time.Duration
}

// Notifier receives notifications. UI layers implement this; tests use
// Recorder.
type Notifier interface {
	Notify(n Notification)
}

// Func adapts a plain function to a Notifier.
type Func func(n Notification)

func (f Func) Notify(n Notification) { f(n) }

// Push builds and delivers a notification with the default auto-hide.
func Push(n Notifier, message string, severity Severity) {
	if n == nil {
		return
	}
	n.Notify(Notification{Message: message, Severity: severity, AutoHide: DefaultAutoHide})
}

// Logging is the default Notifier: it writes notifications to the shared
// logger so headless runs still observe every user-facing signal.
type Logging struct{}

func (Logging) Notify(n Notification) {
	fields := []zap.Field{zap.String("severity", string(n.Severity))}
	switch n.Severity {
	case Error:
		logger.Error(n.Message, fields...)
	case Warning:
		logger.Warn(n.Message, fields...)
	default:
		logger.Info(n.Message, fields...)
	}
}

// Recorder collects notifications for assertions in tests.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	r.sent = append(r.sent, n)
	r.mu.Unlock()
}

// All returns a copy of everything recorded so far.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.sent))
	copy(out, r.sent)
	return out
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return Notification{}, false
	}
	return r.sent[len(r.sent)-1], true
}

// Reset clears the recording.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.sent = nil
	r.mu.Unlock()
}
