package realtime_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rowanvale/ticketd/internal/domain/activity"
	"github.com/rowanvale/ticketd/internal/domain/board"
	"github.com/rowanvale/ticketd/internal/domain/project"
	"github.com/rowanvale/ticketd/internal/domain/ticket"
	"github.com/rowanvale/ticketd/internal/realtime"
	"github.com/stretchr/testify/require"
)

type memoryTickets struct {
	mu      sync.Mutex
	tickets []ticket.Ticket
}

func (m *memoryTickets) ListByProject(_ context.Context, projectID string) ([]ticket.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ticket.Ticket
	for _, t := range m.tickets {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memoryTickets) add(t ticket.Ticket) {
	m.mu.Lock()
	m.tickets = append(m.tickets, t)
	m.mu.Unlock()
}

type memoryFeed struct {
	mu    sync.Mutex
	items []activity.FeedItem
}

func (m *memoryFeed) Feed(_ context.Context) ([]activity.FeedItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]activity.FeedItem(nil), m.items...), nil
}

func recvBoard(t *testing.T, ch <-chan board.Board) board.Board {
	t.Helper()
	select {
	case b := <-ch:
		return b
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for board update")
		return board.Board{}
	}
}

func TestWatchBoard_RefetchOnEvent(t *testing.T) {
	hub := realtime.NewHub(nil)
	store := &memoryTickets{}
	store.add(ticket.Ticket{ID: "t1", ProjectID: "proj1", Status: ticket.StatusTodo})

	updates := make(chan board.Board, 8)
	w := realtime.WatchBoard(context.Background(), hub, store, "proj1", func(b board.Board) {
		updates <- b
	}, nil)
	defer w.Close()

	// Initial fetch.
	b := recvBoard(t, updates)
	require.Equal(t, 1, b.Size())

	// An event triggers a re-fetch; the payload itself is ignored, so
	// the board reflects whatever the store holds at fetch time.
	store.add(ticket.Ticket{ID: "t2", ProjectID: "proj1", Status: ticket.StatusDone})
	hub.Publish(realtime.Event{Table: realtime.TableTickets, Type: realtime.EventInsert, ID: "t2", ProjectID: "proj1"})

	b = recvBoard(t, updates)
	require.Equal(t, 2, b.Size())
	require.Len(t, b.Done, 1)
}

func TestWatchBoard_IgnoresOtherProjects(t *testing.T) {
	hub := realtime.NewHub(nil)
	store := &memoryTickets{}

	updates := make(chan board.Board, 8)
	w := realtime.WatchBoard(context.Background(), hub, store, "proj1", func(b board.Board) {
		updates <- b
	}, nil)
	defer w.Close()

	recvBoard(t, updates) // initial

	store.add(ticket.Ticket{ID: "x", ProjectID: "proj2", Status: ticket.StatusTodo})
	hub.Publish(realtime.Event{Table: realtime.TableTickets, Type: realtime.EventInsert, ID: "x", ProjectID: "proj2"})

	select {
	case <-updates:
		t.Fatal("board re-fetched for an unrelated project")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatchBoard_TwoWatchersConverge(t *testing.T) {
	hub := realtime.NewHub(nil)
	store := &memoryTickets{}
	store.add(ticket.Ticket{ID: "t1", ProjectID: "proj1", Status: ticket.StatusTodo})

	updatesA := make(chan board.Board, 8)
	updatesB := make(chan board.Board, 8)
	wa := realtime.WatchBoard(context.Background(), hub, store, "proj1", func(b board.Board) { updatesA <- b }, nil)
	defer wa.Close()
	wb := realtime.WatchBoard(context.Background(), hub, store, "proj1", func(b board.Board) { updatesB <- b }, nil)
	defer wb.Close()

	recvBoard(t, updatesA)
	recvBoard(t, updatesB)

	store.add(ticket.Ticket{ID: "t2", ProjectID: "proj1", Status: ticket.StatusInProgress})
	hub.Publish(realtime.Event{Table: realtime.TableTickets, Type: realtime.EventUpdate, ID: "t2", ProjectID: "proj1"})

	ba := recvBoard(t, updatesA)
	bb := recvBoard(t, updatesB)
	require.Equal(t, ba, bb)
	require.Equal(t, 2, ba.Size())
}

func TestWatchBoard_NoDeliveryAfterClose(t *testing.T) {
	hub := realtime.NewHub(nil)
	store := &memoryTickets{}

	updates := make(chan board.Board, 8)
	w := realtime.WatchBoard(context.Background(), hub, store, "proj1", func(b board.Board) {
		updates <- b
	}, nil)
	recvBoard(t, updates) // initial

	w.Close()
	w.Close() // idempotent

	hub.Publish(realtime.Event{Table: realtime.TableTickets, Type: realtime.EventInsert, ID: "t1", ProjectID: "proj1"})
	select {
	case <-updates:
		t.Fatal("update delivered after close")
	case <-time.After(100 * time.Millisecond):
	}
}

type memoryProjects struct {
	mu       sync.Mutex
	projects []project.Project
}

func (m *memoryProjects) List(_ context.Context) ([]project.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]project.Project(nil), m.projects...), nil
}

func TestWatchProjects_RefetchOnEvent(t *testing.T) {
	hub := realtime.NewHub(nil)
	store := &memoryProjects{}

	updates := make(chan []project.Project, 8)
	w := realtime.WatchProjects(context.Background(), hub, store, func(projects []project.Project) {
		updates <- projects
	}, nil)
	defer w.Close()

	select {
	case <-updates: // initial
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for initial project list")
	}

	store.mu.Lock()
	store.projects = append(store.projects, project.Project{ID: "p1", Name: "Launch"})
	store.mu.Unlock()
	hub.Publish(realtime.Event{Table: realtime.TableProjects, Type: realtime.EventInsert, ID: "p1"})

	select {
	case projects := <-updates:
		require.Len(t, projects, 1)
		require.Equal(t, "p1", projects[0].ID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for project list update")
	}
}

func TestWatchFeed_InsertOnly(t *testing.T) {
	hub := realtime.NewHub(nil)
	feed := &memoryFeed{}

	updates := make(chan []activity.FeedItem, 8)
	w := realtime.WatchFeed(context.Background(), hub, feed, func(items []activity.FeedItem) {
		updates <- items
	}, nil)
	defer w.Close()

	select {
	case <-updates: // initial
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for initial feed")
	}

	// Updates and deletes never happen to activities; the watcher
	// ignores them if they somehow appear.
	hub.Publish(realtime.Event{Table: realtime.TableActivities, Type: realtime.EventDelete, ID: "a1"})
	select {
	case <-updates:
		t.Fatal("feed re-fetched for a non-insert event")
	case <-time.After(100 * time.Millisecond):
	}

	feed.mu.Lock()
	feed.items = append(feed.items, activity.FeedItem{Entry: activity.Entry{ID: "a1"}})
	feed.mu.Unlock()
	hub.Publish(realtime.Event{Table: realtime.TableActivities, Type: realtime.EventInsert, ID: "a1"})

	select {
	case items := <-updates:
		require.Len(t, items, 1)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for feed update")
	}
}
