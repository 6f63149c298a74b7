// Package sse writes text/event-stream responses. The admin live feed falls
// back to it when a proxy refuses websocket upgrades.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Stream is one open event-stream response.
type Stream struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

// New writes the event-stream headers and flushes them. It fails when no
// writer in the chain can flush.
func New(w http.ResponseWriter) (*Stream, error) {
	rc := http.NewResponseController(w)
	// streams outlive the server's WriteTimeout
	rc.SetWriteDeadline(time.Time{}) //nolint:errcheck

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := rc.Flush(); err != nil {
		return nil, fmt.Errorf("sse: flush: %w", err)
	}
	return &Stream{w: w, rc: rc}, nil
}

// Send writes a named event whose data is already encoded.
func (s *Stream) Send(event string, data []byte) error {
	var b strings.Builder
	if event != "" {
		fmt.Fprintf(&b, "event: %s\n", event)
	}
	for _, line := range strings.Split(string(data), "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")

	if _, err := s.w.Write([]byte(b.String())); err != nil {
		return err
	}
	return s.rc.Flush()
}

// JSON marshals v and sends it as event.
func (s *Stream) JSON(event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("sse: marshal: %w", err)
	}
	return s.Send(event, data)
}

// Comment writes a keepalive line that clients ignore.
func (s *Stream) Comment(msg string) error {
	if _, err := fmt.Fprintf(s.w, ": %s\n\n", msg); err != nil {
		return err
	}
	return s.rc.Flush()
}
