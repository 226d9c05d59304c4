// Package assistant runs one user interaction end to end: cache lookup,
// streamed model call, transcript and completion event.
package assistant

import (
	"context"
	"log/slog"
	"time"

	"local-assistants/internal/cache"
	"local-assistants/internal/events"
	"local-assistants/internal/llm"
	"local-assistants/internal/prompt"
	"local-assistants/internal/store"
	"local-assistants/internal/stream"
)

// Request describes one model invocation.
type Request struct {
	App     string
	Mode    string
	Sources []string
	Pair    prompt.Pair
}

// Service is safe to share between requests; each Ask owns its accumulator.
type Service struct {
	LLM      llm.Client
	Cache    cache.Cache
	Store    store.Store
	Events   events.Publisher
	Log      *slog.Logger
	CacheTTL time.Duration
}

// Ask blocks until the response is complete. Cache, store and event
// failures are logged and never change the result.
func (s *Service) Ask(ctx context.Context, req Request, sink stream.Sink) stream.Result {
	start := time.Now()
	model := s.LLM.Model()
	log := s.Log.With("app", req.App, "mode", req.Mode, "model", model)
	key := cache.Key(model, req.Pair)

	res, hit := s.fromCache(ctx, log, key, sink)
	if !hit {
		res = stream.Run(ctx, s.LLM, req.Pair, sink)
		if res.Failed {
			log.Warn("model request failed", "err", res.Text)
		} else if err := s.Cache.SetResponse(ctx, key, &cache.Response{
			Text:     res.Text,
			Model:    model,
			StoredAt: time.Now(),
		}, s.CacheTTL); err != nil {
			log.Warn("failed to cache response", "err", err)
		}
	}

	t, err := s.Store.SaveTranscript(ctx, store.Transcript{
		App:      req.App,
		Mode:     req.Mode,
		Sources:  req.Sources,
		System:   req.Pair.System,
		User:     req.Pair.User,
		Response: res.Text,
		Failed:   res.Failed,
		Cached:   res.Cached,
	})
	if err != nil {
		log.Warn("failed to save transcript", "err", err)
	}

	elapsed := time.Since(start)
	if err := s.Events.Publish(ctx, events.Completed{
		TranscriptID: t.ID,
		App:          req.App,
		Mode:         req.Mode,
		Model:        model,
		Sources:      req.Sources,
		Failed:       res.Failed,
		Cached:       res.Cached,
		Chars:        len(res.Text),
		DurationMS:   elapsed.Milliseconds(),
		At:           time.Now(),
	}); err != nil {
		log.Warn("failed to publish completion", "err", err)
	}

	log.Info("request complete", "failed", res.Failed, "cached", res.Cached, "duration_ms", elapsed.Milliseconds())
	return res
}

func (s *Service) fromCache(ctx context.Context, log *slog.Logger, key string, sink stream.Sink) (stream.Result, bool) {
	cached, err := s.Cache.GetResponse(ctx, key)
	if err != nil {
		log.Warn("cache lookup failed", "err", err)
		return stream.Result{}, false
	}
	if cached == nil {
		return stream.Result{}, false
	}
	if err := sink.Publish(cached.Text); err != nil {
		return stream.Failure(err), true
	}
	log.Debug("cache hit")
	return stream.Result{Text: cached.Text, Cached: true}, true
}
