package realtime

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/rowanvale/ticketd/internal/domain/activity"
	"github.com/rowanvale/ticketd/internal/domain/board"
	"github.com/rowanvale/ticketd/internal/domain/project"
	"github.com/rowanvale/ticketd/internal/domain/ticket"
)

// TicketLister loads the full ticket set for a project.
type TicketLister interface {
	ListByProject(ctx context.Context, projectID string) ([]ticket.Ticket, error)
}

// FeedLoader loads the annotated activity feed.
type FeedLoader interface {
	Feed(ctx context.Context) ([]activity.FeedItem, error)
}

// ProjectLister loads the project list.
type ProjectLister interface {
	List(ctx context.Context) ([]project.Project, error)
}

// Watcher keeps one view eventually consistent with the store. It owns
// a single subscription; every matching event triggers a full re-fetch
// whose result is handed to the view's callback. Event payloads are
// never applied directly.
//
// Re-fetches triggered in quick succession may complete out of order;
// a generation counter makes the latest-started fetch win, and results
// arriving after Close are discarded. A failed background re-fetch is
// logged and leaves the previously delivered state in place.
type Watcher struct {
	sub    *Subscription
	logger *slog.Logger

	gen uint64 // last fetch started

	mu        sync.Mutex
	delivered uint64 // last fetch delivered
	closed    bool
	done      chan struct{}
}

// WatchBoard projects a ticket board and keeps it current. onUpdate
// receives the initial projection and one per convergent re-fetch.
func WatchBoard(ctx context.Context, hub *Hub, lister TicketLister, projectID string, onUpdate func(board.Board), logger *slog.Logger) *Watcher {
	sub := hub.Subscribe(TableTickets, WithProjectFilter(projectID))
	w := newWatcher(sub, logger)
	w.start(ctx, func(ctx context.Context, gen uint64) {
		tickets, err := lister.ListByProject(ctx, projectID)
		if err != nil {
			w.logError("board re-fetch failed", err)
			return
		}
		w.deliver(gen, func() { onUpdate(board.Project(tickets)) })
	})
	return w
}

// WatchFeed keeps the notification feed current. Only inserts matter:
// activity records are never updated or deleted.
func WatchFeed(ctx context.Context, hub *Hub, loader FeedLoader, onUpdate func([]activity.FeedItem), logger *slog.Logger) *Watcher {
	sub := hub.Subscribe(TableActivities, WithEvents(EventInsert))
	w := newWatcher(sub, logger)
	w.start(ctx, func(ctx context.Context, gen uint64) {
		items, err := loader.Feed(ctx)
		if err != nil {
			w.logError("feed re-fetch failed", err)
			return
		}
		w.deliver(gen, func() { onUpdate(items) })
	})
	return w
}

// WatchProjects keeps the project list current.
func WatchProjects(ctx context.Context, hub *Hub, lister ProjectLister, onUpdate func([]project.Project), logger *slog.Logger) *Watcher {
	sub := hub.Subscribe(TableProjects)
	w := newWatcher(sub, logger)
	w.start(ctx, func(ctx context.Context, gen uint64) {
		projects, err := lister.List(ctx)
		if err != nil {
			w.logError("project re-fetch failed", err)
			return
		}
		w.deliver(gen, func() { onUpdate(projects) })
	})
	return w
}

func newWatcher(sub *Subscription, logger *slog.Logger) *Watcher {
	return &Watcher{
		sub:    sub,
		logger: logger,
		done:   make(chan struct{}),
	}
}

func (w *Watcher) start(ctx context.Context, fetch func(context.Context, uint64)) {
	refetch := func() {
		gen := atomic.AddUint64(&w.gen, 1)
		go fetch(ctx, gen)
	}

	refetch()
	go func() {
		for {
			select {
			case _, ok := <-w.sub.C():
				if !ok {
					return
				}
				refetch()
			case <-w.done:
				return
			case <-ctx.Done():
				w.Close()
				return
			}
		}
	}()
}

// deliver runs emit only if this fetch is newer than the last
// delivered one and the watcher is still live.
func (w *Watcher) deliver(gen uint64, emit func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || gen <= w.delivered {
		return
	}
	w.delivered = gen
	emit()
}

// Close releases the subscription and stops delivery. Required on view
// teardown; idempotent.
func (w *Watcher) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	w.sub.Close()
}

func (w *Watcher) logError(msg string, err error) {
	if w.logger != nil {
		w.logger.Warn(msg, "error", err)
	}
}
