// Package realtime carries change notifications from the store to
// subscribed views. It stands in for the hosted store's per-table
// change channels: repositories publish an event after each committed
// write, and views subscribe with table and column filters.
package realtime

import (
	"log/slog"
	"sync"
)

// EventType classifies a store change.
type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// Observed tables.
const (
	TableProjects   = "projects"
	TableTickets    = "tickets"
	TableActivities = "activities"
	TableSessions   = "sessions"
)

// Event describes one committed change. Subscribers never apply the
// payload directly; an event is only a trigger to re-fetch.
type Event struct {
	Table     string    `json:"table"`
	Type      EventType `json:"type"`
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id,omitempty"`
}

// Publisher is the write side of the hub, implemented by *Hub and
// satisfied by no-ops in tests.
type Publisher interface {
	Publish(Event)
}

// Hub fans events out to subscriptions. Publishing never blocks: a
// subscriber whose buffer is full misses the event, which is safe
// because re-fetch is idempotent and a later event re-triggers it.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	logger *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subs:   make(map[*Subscription]struct{}),
		logger: logger,
	}
}

const subscriptionBuffer = 16

// SubscribeOption narrows a subscription.
type SubscribeOption func(*Subscription)

// WithEvents restricts the subscription to the given event types.
// Without it, all types are delivered.
func WithEvents(types ...EventType) SubscribeOption {
	return func(s *Subscription) {
		s.events = make(map[EventType]struct{}, len(types))
		for _, t := range types {
			s.events[t] = struct{}{}
		}
	}
}

// WithProjectFilter restricts the subscription to events whose
// project_id equals the given value.
func WithProjectFilter(projectID string) SubscribeOption {
	return func(s *Subscription) {
		s.projectID = &projectID
	}
}

// Subscribe registers interest in changes to one table. The caller
// owns the returned subscription and must Close it on teardown; an
// unreleased subscription is a leak, not a soft failure.
func (h *Hub) Subscribe(table string, opts ...SubscribeOption) *Subscription {
	s := &Subscription{
		hub:   h,
		table: table,
		ch:    make(chan Event, subscriptionBuffer),
	}
	for _, opt := range opts {
		opt(s)
	}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	return s
}

// Publish delivers an event to every matching subscription.
func (h *Hub) Publish(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subs {
		if !s.matches(e) {
			continue
		}
		select {
		case s.ch <- e:
		default:
			// Buffer full; drop. The pending events already queued
			// will trigger the same re-fetch.
			if h.logger != nil {
				h.logger.Debug("dropped change event for slow subscriber", "table", e.Table)
			}
		}
	}
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	delete(h.subs, s)
	h.mu.Unlock()
}

// Subscription is one registered interest in a table's changes.
type Subscription struct {
	hub       *Hub
	table     string
	events    map[EventType]struct{}
	projectID *string
	ch        chan Event
	closeOnce sync.Once
}

// C returns the event channel. It is closed by Close.
func (s *Subscription) C() <-chan Event {
	return s.ch
}

// Close releases the subscription. Idempotent.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.hub.remove(s)
		close(s.ch)
	})
}

func (s *Subscription) matches(e Event) bool {
	// An empty table subscribes to every table.
	if s.table != "" && e.Table != s.table {
		return false
	}
	if s.events != nil {
		if _, ok := s.events[e.Type]; !ok {
			return false
		}
	}
	if s.projectID != nil && e.ProjectID != *s.projectID {
		return false
	}
	return true
}
