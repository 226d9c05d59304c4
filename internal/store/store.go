package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Transcript records one finished model interaction.
type Transcript struct {
	ID        uuid.UUID `json:"id"`
	App       string    `json:"app"`
	Mode      string    `json:"mode"`
	Sources   []string  `json:"sources"`
	System    string    `json:"system"`
	User      string    `json:"user"`
	Response  string    `json:"response"`
	Failed    bool      `json:"failed"`
	Cached    bool      `json:"cached"`
	CreatedAt time.Time `json:"created_at"`
}

// Store defines the transcript history contract.
type Store interface {
	SaveTranscript(ctx context.Context, t Transcript) (Transcript, error)
	ListTranscripts(ctx context.Context, app string, limit int) ([]Transcript, error)
	Close() error
}
