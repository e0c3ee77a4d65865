package realtime_test

import (
	"testing"
	"time"

	"github.com/rowanvale/ticketd/internal/realtime"
	"github.com/stretchr/testify/require"
)

func recvEvent(t *testing.T, ch <-chan realtime.Event) realtime.Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return realtime.Event{}
	}
}

func TestHub_PublishSubscribe(t *testing.T) {
	hub := realtime.NewHub(nil)
	sub := hub.Subscribe(realtime.TableTickets)
	defer sub.Close()

	hub.Publish(realtime.Event{Table: realtime.TableTickets, Type: realtime.EventInsert, ID: "t1"})

	e := recvEvent(t, sub.C())
	require.Equal(t, "t1", e.ID)
	require.Equal(t, realtime.EventInsert, e.Type)
}

func TestHub_TableFilter(t *testing.T) {
	hub := realtime.NewHub(nil)
	sub := hub.Subscribe(realtime.TableActivities)
	defer sub.Close()

	hub.Publish(realtime.Event{Table: realtime.TableTickets, Type: realtime.EventInsert, ID: "t1"})
	hub.Publish(realtime.Event{Table: realtime.TableActivities, Type: realtime.EventInsert, ID: "a1"})

	e := recvEvent(t, sub.C())
	require.Equal(t, "a1", e.ID)
	require.Empty(t, sub.C())
}

func TestHub_EmptyTableMatchesAll(t *testing.T) {
	hub := realtime.NewHub(nil)
	sub := hub.Subscribe("")
	defer sub.Close()

	hub.Publish(realtime.Event{Table: realtime.TableTickets, Type: realtime.EventInsert, ID: "t1"})
	hub.Publish(realtime.Event{Table: realtime.TableProjects, Type: realtime.EventInsert, ID: "p1"})

	require.Equal(t, "t1", recvEvent(t, sub.C()).ID)
	require.Equal(t, "p1", recvEvent(t, sub.C()).ID)
}

func TestHub_EventTypeFilter(t *testing.T) {
	hub := realtime.NewHub(nil)
	sub := hub.Subscribe(realtime.TableActivities, realtime.WithEvents(realtime.EventInsert))
	defer sub.Close()

	hub.Publish(realtime.Event{Table: realtime.TableActivities, Type: realtime.EventUpdate, ID: "a1"})
	hub.Publish(realtime.Event{Table: realtime.TableActivities, Type: realtime.EventInsert, ID: "a2"})

	require.Equal(t, "a2", recvEvent(t, sub.C()).ID)
}

func TestHub_ProjectFilter(t *testing.T) {
	hub := realtime.NewHub(nil)
	sub := hub.Subscribe(realtime.TableTickets, realtime.WithProjectFilter("proj1"))
	defer sub.Close()

	hub.Publish(realtime.Event{Table: realtime.TableTickets, Type: realtime.EventInsert, ID: "t1", ProjectID: "proj2"})
	hub.Publish(realtime.Event{Table: realtime.TableTickets, Type: realtime.EventInsert, ID: "t2", ProjectID: "proj1"})

	require.Equal(t, "t2", recvEvent(t, sub.C()).ID)
}

func TestHub_PublishAfterCloseDoesNotBlock(t *testing.T) {
	hub := realtime.NewHub(nil)
	sub := hub.Subscribe(realtime.TableTickets)
	sub.Close()
	sub.Close() // idempotent

	hub.Publish(realtime.Event{Table: realtime.TableTickets, Type: realtime.EventInsert, ID: "t1"})

	_, open := <-sub.C()
	require.False(t, open)
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := realtime.NewHub(nil)
	sub := hub.Subscribe(realtime.TableTickets)
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			hub.Publish(realtime.Event{Table: realtime.TableTickets, Type: realtime.EventInsert, ID: "t"})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}
}
