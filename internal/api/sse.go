package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rowanvale/ticketd/internal/realtime"
)

// handleEvents streams store change events as Server-Sent Events.
// Clients may narrow the stream with ?table= and ?project_id= query
// parameters. Events carry no row data; a client re-fetches through
// the RPC methods when one arrives.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if _, ok := SessionFromContext(r.Context()); !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	table := r.URL.Query().Get("table")
	var opts []realtime.SubscribeOption
	if projectID := r.URL.Query().Get("project_id"); projectID != "" {
		opts = append(opts, realtime.WithProjectFilter(projectID))
	}

	sub := s.hub.Subscribe(table, opts...)
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case e, ok := <-sub.C():
			if !ok {
				return
			}
			payload, err := json.Marshal(e)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
