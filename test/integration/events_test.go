package integration_test

import (
	"bufio"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rowanvale/ticketd/internal/realtime"
	"github.com/rowanvale/ticketd/internal/testserver"
	"github.com/stretchr/testify/require"
)

func TestEventStream(t *testing.T) {
	ts := testserver.New(t)
	token := ts.SignIn(t, "ada@example.com", "")

	var proj struct {
		ID string `json:"id"`
	}
	ts.Call(t, token, "create_project", map[string]string{"name": "Launch"}, &proj)

	req, err := http.NewRequest(http.MethodGet, ts.Server.URL+"/events?table=tickets&project_id="+proj.ID, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := make(chan realtime.Event, 1)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			var e realtime.Event
			if json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &e) == nil {
				events <- e
				return
			}
		}
	}()

	ts.Call(t, token, "create_ticket", map[string]string{"project_id": proj.ID, "title": "Fix login"}, nil)

	select {
	case e := <-events:
		require.Equal(t, realtime.TableTickets, e.Table)
		require.Equal(t, realtime.EventInsert, e.Type)
		require.Equal(t, proj.ID, e.ProjectID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
}

func TestEventStream_RequiresSession(t *testing.T) {
	ts := testserver.New(t)

	resp, err := http.Get(ts.Server.URL + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
