// Package sse writes Server-Sent Events to an http.ResponseWriter.
package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"local-assistants/internal/stream"
)

// Event names understood by the pages.
const (
	EventSection = "section"
	EventPartial = "partial"
	EventDone    = "done"
	EventNotice  = "notice"
)

// ErrStreamingUnsupported is returned when the writer cannot flush.
var ErrStreamingUnsupported = errors.New("streaming unsupported")

// Writer emits one event per call and flushes it immediately.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewWriter sets the event-stream headers and commits a 200 status.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &Writer{w: w, flusher: flusher}, nil
}

// Event JSON-encodes data as a single-line payload.
func (sw *Writer) Event(name string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", name, err)
	}
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(name)
	b.WriteString("\ndata: ")
	b.Write(payload)
	b.WriteString("\n\n")
	if _, err := sw.w.Write([]byte(b.String())); err != nil {
		return fmt.Errorf("write %s event: %w", name, err)
	}
	sw.flusher.Flush()
	return nil
}

// Section opens a new output area on the page.
type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Partial carries the full accumulated text of a section.
type Partial struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Done closes a section with its final text.
type Done struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Failed bool   `json:"failed"`
	Cached bool   `json:"cached"`
}

// Notice is a message that did not come from the model.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Sink returns a publisher that sends every update of section id as a
// partial event.
func (sw *Writer) Sink(id string) stream.Sink {
	return stream.SinkFunc(func(text string) error {
		return sw.Event(EventPartial, Partial{ID: id, Text: text})
	})
}
