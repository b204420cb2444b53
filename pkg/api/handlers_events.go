package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dd0wney/cluso-attackmap/pkg/logging"
)

// Server-sent event names
const (
	eventSelection = "selection"
	eventGraph     = "graph"
)

// streamEvent is one server-sent event: its name and JSON payload
type streamEvent struct {
	Name string
	Data any
}

// handleEvents streams selection and graph change events as server-sent
// events until the client disconnects or the server shuts down
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sub, err := s.events.Subscribe(r.Context())
	if err != nil {
		s.respondError(w, http.StatusServiceUnavailable, "event stream closed")
		return
	}
	defer sub.Unsubscribe()

	rc := http.NewResponseController(w)
	// Streams outlive the server write timeout
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		s.logger.Warn("event stream not flushable", logging.Error(err))
		return
	}

	for ev := range sub.Events() {
		data, err := json.Marshal(ev.Data)
		if err != nil {
			s.logger.Error("failed to encode event", logging.String("event", ev.Name), logging.Error(err))
			continue
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, data); err != nil {
			return
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}

	if dropped := sub.Dropped(); dropped > 0 {
		s.logger.Debug("event stream missed events", logging.Int("dropped", int(dropped)))
	}
}
