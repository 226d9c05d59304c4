package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SubjectPrefix is followed by the app name on the wire.
const SubjectPrefix = "assistant.completed."

// Completed announces a finished interaction.
type Completed struct {
	TranscriptID uuid.UUID `json:"transcript_id"`
	App          string    `json:"app"`
	Mode         string    `json:"mode"`
	Model        string    `json:"model"`
	Sources      []string  `json:"sources,omitempty"`
	Failed       bool      `json:"failed"`
	Cached       bool      `json:"cached"`
	Chars        int       `json:"chars"`
	DurationMS   int64     `json:"duration_ms"`
	At           time.Time `json:"at"`
}

// Publisher exposes a minimal contract to announce completions.
type Publisher interface {
	Publish(ctx context.Context, ev Completed) error
	Close() error
}

// NoOpPublisher drops every event.
type NoOpPublisher struct{}

func (NoOpPublisher) Publish(context.Context, Completed) error { return nil }

func (NoOpPublisher) Close() error { return nil }
