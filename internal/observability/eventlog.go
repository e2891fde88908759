// Package observability records orchestration events and exposes
// Prometheus metrics for agent runs and model calls.
package observability

import (
	"log/slog"
	"sync"
	"time"
)

// Event is one recorded orchestration event.
type Event struct {
	Type    string    `json:"type"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// DefaultEventCapacity is how many recent events an EventLog keeps.
const DefaultEventCapacity = 256

// EventLog writes orchestration events to a logger, counts them in Metrics
// and keeps the most recent ones in memory. Recording never fails: a panic
// in any sink is logged and swallowed. A nil *EventLog is a no-op.
type EventLog struct {
	logger  *slog.Logger
	metrics *Metrics

	mu     sync.Mutex
	recent []Event
	cap    int
	now    func() time.Time
}

// NewEventLog creates an EventLog. metrics may be nil.
func NewEventLog(logger *slog.Logger, metrics *Metrics) *EventLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventLog{
		logger:  logger.With("component", "events"),
		metrics: metrics,
		cap:     DefaultEventCapacity,
		now:     time.Now,
	}
}

// Record logs one event.
func (l *EventLog) Record(eventType, message string) {
	if l == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			l.reportPanic(eventType, r)
		}
	}()

	l.logger.Info(message, "type", eventType)
	l.metrics.countEvent(eventType)

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.recent) == l.cap {
		copy(l.recent, l.recent[1:])
		l.recent = l.recent[:l.cap-1]
	}
	l.recent = append(l.recent, Event{Type: eventType, Message: message, At: l.now()})
}

// reportPanic logs a sink panic to the default logger, ignoring a second
// panic from the same sink.
func (l *EventLog) reportPanic(eventType string, r any) {
	defer func() { _ = recover() }()
	slog.Default().Error("event sink panicked", "type", eventType, "panic", r)
}

// Recent returns the retained events, oldest first.
func (l *EventLog) Recent() []Event {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.recent))
	copy(out, l.recent)
	return out
}
