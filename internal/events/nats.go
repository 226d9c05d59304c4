package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// NewNATS constructs a thin NATS-based publisher.
func NewNATS(log *slog.Logger, nc *nats.Conn) Publisher {
	return &natsPublisher{log: log, nc: nc}
}

type natsPublisher struct {
	log *slog.Logger
	nc  *nats.Conn
}

func (p *natsPublisher) Publish(_ context.Context, ev Completed) error {
	if ev.App == "" {
		return errors.New("event app required")
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := p.nc.Publish(SubjectPrefix+ev.App, body); err != nil {
		return err
	}
	p.log.Debug("published completion", "app", ev.App, "transcript_id", ev.TranscriptID)
	return nil
}

func (p *natsPublisher) Close() error {
	return p.nc.Drain()
}
