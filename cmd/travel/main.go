package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"local-assistants/internal/app"
	"local-assistants/internal/assistant"
	"local-assistants/internal/httputil"
	"local-assistants/internal/prompt"
	"local-assistants/internal/sse"
	"local-assistants/internal/web"
)

const appName = "travel"

// maxBodyBytes bounds the JSON body of a plan request.
const maxBodyBytes = 64 << 10

type planRequest struct {
	Mode    string `json:"mode" validate:"required,oneof=itinerary tips destinations"`
	Request string `json:"request" validate:"required,max=4000"`
}

type modeInfo struct {
	Slug        string `json:"slug"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Placeholder string `json:"placeholder"`
	Default     string `json:"default"`
}

func main() {
	if err := run(); err != nil {
		slog.Default().Error("travel assistant stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	deps, err := app.Build(appName)
	if err != nil {
		return fmt.Errorf("failed to build dependencies: %w", err)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			deps.Log.Warn("failed to close dependencies", "err", err)
		}
	}()

	r, err := newRouter(deps)
	if err != nil {
		return err
	}
	addr := fmt.Sprintf(":%d", deps.Config.Port)
	return httputil.Serve(context.Background(), deps.Log, addr, r, deps.Config.ShutdownTimeout)
}

func newRouter(deps app.Deps) (*chi.Mux, error) {
	page, err := web.Handler(deps.Log, web.Travel)
	if err != nil {
		return nil, err
	}
	r := httputil.NewRouter(deps.Log)
	r.Get("/", page)
	r.Get("/api/modes", modesHandler())
	r.With(httputil.RateLimit(deps.Log, deps.Config.RateLimit, deps.Config.RateBurst)).Post("/api/plan", planHandler(deps))
	r.Get("/api/history", httputil.HistoryHandler(deps, appName))
	r.Get("/healthz", httputil.HealthHandler(deps))
	return r, nil
}

func modesHandler() http.HandlerFunc {
	modes := make([]modeInfo, 0, len(prompt.Modes()))
	for _, m := range prompt.Modes() {
		modes = append(modes, modeInfo{
			Slug:        m.Slug(),
			Label:       m.String(),
			Description: m.Instruction(),
			Placeholder: m.Placeholder(),
			Default:     m.DefaultRequest(),
		})
	}
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, modes)
	}
}

func planHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req planRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid request body", err, http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Request) == "" {
			httputil.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "please enter some input"})
			return
		}
		if err := httputil.Validate(req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}
		mode, err := prompt.ParseMode(req.Mode)
		if err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}
		pair, err := prompt.Travel(mode, req.Request)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to build prompt", err, http.StatusInternalServerError)
			return
		}

		sw, err := sse.NewWriter(w)
		if err != nil {
			httputil.Fail(deps.Log, w, "streaming unsupported", err, http.StatusInternalServerError)
			return
		}
		const id = "plan"
		if err := sw.Event(sse.EventSection, sse.Section{ID: id, Title: mode.String()}); err != nil {
			deps.Log.Warn("client gone", "err", err)
			return
		}
		res := deps.Assistant.Ask(r.Context(), assistant.Request{
			App:  appName,
			Mode: mode.Slug(),
			Pair: pair,
		}, sw.Sink(id))
		if err := sw.Event(sse.EventDone, sse.Done{ID: id, Text: res.Text, Failed: res.Failed, Cached: res.Cached}); err != nil {
			deps.Log.Warn("client gone", "err", err)
		}
	}
}
