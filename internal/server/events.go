package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zgpcy/watchface/internal/collector"
)

// handleEvents streams snapshots as Server-Sent Events until the client
// goes away. The subscription starts with the current snapshot so a new
// page does not wait a full tick. Each event's delta is relative to the
// previous event on the same stream.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	// The stream outlives the server's write timeout
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		s.logger.Debug("Could not clear write deadline", "error", err)
	}

	snapshots, cancel := s.faces.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := rc.Flush(); err != nil {
		s.logger.Error("Event stream does not support flushing", "error", err)
		return
	}

	s.logger.Debug("Event stream opened", "remote_addr", r.RemoteAddr)
	defer s.logger.Debug("Event stream closed", "remote_addr", r.RemoteAddr)

	heartbeat := time.NewTicker(s.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.closing.Done():
			return
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			if err := writeEvent(w, snap); err != nil {
				return
			}
			heartbeat.Reset(s.heartbeat)
		case <-heartbeat.C:
			if _, err := io.WriteString(w, ": ping\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

// writeEvent writes one "tick" event carrying snap as JSON
func writeEvent(w io.Writer, snap collector.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	_, err = fmt.Fprintf(w, "id: %s\nevent: tick\ndata: %s\n\n", snap.ID, data)
	return err
}
