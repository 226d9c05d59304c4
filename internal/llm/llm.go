package llm

import (
	"context"

	"local-assistants/internal/prompt"
)

// Client opens streamed chat completions against a model server.
type Client interface {
	// Stream sends the pair as a system + user conversation and returns the
	// response as an ordered chunk sequence. A failure to open the stream is
	// returned here instead of a sequence.
	Stream(ctx context.Context, pair prompt.Pair) (Stream, error)
	// Model reports the model identifier requests are sent to.
	Model() string
}

// Stream is a finite, non-restartable sequence of response chunks.
// Next advances to the next non-empty chunk and returns false at the end of
// the stream or on failure; Err reports the failure, if any.
type Stream interface {
	Next() bool
	Current() string
	Err() error
	Close() error
}
