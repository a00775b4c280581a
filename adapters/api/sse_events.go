package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SSEEventType defines the types of SSE events sent while a report renders
type SSEEventType string

const (
	EventTypeReportStarted   SSEEventType = "report_started"
	EventTypeColumnRendered  SSEEventType = "column_rendered"
	EventTypeColumnSkipped   SSEEventType = "column_skipped"
	EventTypeReportCompleted SSEEventType = "report_completed"
	EventTypeReportFailed    SSEEventType = "report_failed"
)

// SSEEvent represents a server-sent event
type SSEEvent struct {
	EventType SSEEventType `json:"event_type"`
	FileID    string       `json:"file_id,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
	Data      interface{}  `json:"data"`
}

// ToSSEFormat converts the event to SSE format
func (e *SSEEvent) ToSSEFormat() string {
	jsonData, err := json.Marshal(e)
	if err != nil {
		// Fallback to basic format
		return fmt.Sprintf("event: %s\ndata: %s\n\n", e.EventType, `{"error":"error marshalling event"}`)
	}
	return fmt.Sprintf("event: %s\ndata: %s\n\n", e.EventType, string(jsonData))
}

// ReportStartedEvent data for the start of a report
type ReportStartedEvent struct {
	Columns []string `json:"columns"`
}

// ReportCompletedEvent data for the end of a report
type ReportCompletedEvent struct {
	Rendered   int   `json:"rendered"`
	Skipped    int   `json:"skipped"`
	DurationMs int64 `json:"duration_ms"`
}

// ReportFailedEvent data for a report aborted by an infrastructure error
type ReportFailedEvent struct {
	Error string `json:"error"`
}

// SSEWriter writes events to a streaming response
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	fileID  string
	now     func() time.Time
}

// NewSSEWriter prepares w for an event stream. It fails when the response
// cannot be flushed incrementally.
func NewSSEWriter(w http.ResponseWriter, fileID string) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming unsupported by response writer")
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &SSEWriter{w: w, flusher: flusher, fileID: fileID, now: time.Now}, nil
}

// Send writes one event and flushes it.
func (s *SSEWriter) Send(eventType SSEEventType, data interface{}) error {
	event := &SSEEvent{
		EventType: eventType,
		FileID:    s.fileID,
		Timestamp: s.now().UTC(),
		Data:      data,
	}
	if _, err := fmt.Fprint(s.w, event.ToSSEFormat()); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
