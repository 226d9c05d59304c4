package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"local-assistants/internal/app"
	"local-assistants/internal/assistant"
	"local-assistants/internal/extract"
	"local-assistants/internal/httputil"
	"local-assistants/internal/prompt"
	"local-assistants/internal/sse"
	"local-assistants/internal/web"
)

const appName = "medical"

type analyzeInput struct {
	Files []*multipart.FileHeader `validate:"required,min=1,max=10"`
	Query string                  `validate:"max=2000"`
}

func main() {
	if err := run(); err != nil {
		slog.Default().Error("medical assistant stopped", "err", err)
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
	page, err := web.Handler(deps.Log, web.Medical)
	if err != nil {
		return nil, err
	}
	r := httputil.NewRouter(deps.Log)
	r.Get("/", page)
	r.With(httputil.RateLimit(deps.Log, deps.Config.RateLimit, deps.Config.RateBurst)).Post("/api/analyze", analyzeHandler(deps))
	r.Get("/api/history", httputil.HistoryHandler(deps, appName))
	r.Get("/healthz", httputil.HealthHandler(deps))
	return r, nil
}

func analyzeHandler(deps app.Deps) http.HandlerFunc {
	maxUpload := deps.Config.MaxUploadSize
	limit := deps.Config.ReportCharLimit
	if limit <= 0 {
		limit = prompt.DefaultReportLimit
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > maxUpload {
			httputil.Fail(deps.Log, w, fmt.Sprintf("upload too large (max %d bytes)", maxUpload), nil, http.StatusBadRequest)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				httputil.Fail(deps.Log, w, fmt.Sprintf("upload too large (max %d bytes)", maxUpload), err, http.StatusBadRequest)
				return
			}
			httputil.Fail(deps.Log, w, "invalid multipart form", err, http.StatusBadRequest)
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		in := analyzeInput{
			Files: r.MultipartForm.File["files"],
			Query: strings.TrimSpace(r.FormValue("query")),
		}
		if err := httputil.Validate(in); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		sw, err := sse.NewWriter(w)
		if err != nil {
			httputil.Fail(deps.Log, w, "streaming unsupported", err, http.StatusInternalServerError)
			return
		}
		a := &analysis{deps: deps, sw: sw, query: in.Query, limit: limit}
		a.run(r.Context(), in.Files)
	}
}

// analysis streams every report's analyses, one model call at a time.
type analysis struct {
	deps  app.Deps
	sw    *sse.Writer
	query string
	limit int
}

func (a *analysis) run(ctx context.Context, files []*multipart.FileHeader) {
	var reports []prompt.Report
	for i, fh := range files {
		if ctx.Err() != nil {
			return
		}
		text, err := readReport(fh)
		if err != nil {
			a.deps.Log.Warn("failed to extract report", "filename", fh.Filename, "err", err)
			if !a.notice("warning", fmt.Sprintf("Could not read %s: %v", fh.Filename, err)) {
				return
			}
			continue
		}
		if strings.TrimSpace(text) == "" {
			if !a.notice("warning", fmt.Sprintf("No text could be extracted from %s", fh.Filename)) {
				return
			}
			continue
		}
		reports = append(reports, prompt.Report{Name: fh.Filename, Text: text})

		for _, focus := range prompt.Focuses() {
			pair, err := prompt.Medical(text, focus, a.query, a.limit)
			if err != nil {
				a.deps.Log.Error("failed to build prompt", "focus", focus, "err", err)
				return
			}
			id := fmt.Sprintf("r%d-%s", i+1, focus.Slug())
			title := fmt.Sprintf("Analysis of %s: %s", fh.Filename, focus)
			if !a.ask(ctx, id, title, focus.Slug(), []string{fh.Filename}, pair) {
				return
			}
		}
	}

	if len(reports) > 1 {
		names := make([]string, len(reports))
		for i, rep := range reports {
			names[i] = rep.Name
		}
		pair := prompt.CrossReport(reports, a.query, a.limit)
		a.ask(ctx, "cross", "Cross-Report Analysis", "cross-report", names, pair)
	}
}

// ask runs one model call inside its own section. It reports false once the
// client can no longer be written to.
func (a *analysis) ask(ctx context.Context, id, title, mode string, sources []string, pair prompt.Pair) bool {
	if err := a.sw.Event(sse.EventSection, sse.Section{ID: id, Title: title}); err != nil {
		a.deps.Log.Warn("client gone", "err", err)
		return false
	}
	res := a.deps.Assistant.Ask(ctx, assistant.Request{
		App:     appName,
		Mode:    mode,
		Sources: sources,
		Pair:    pair,
	}, a.sw.Sink(id))
	if err := a.sw.Event(sse.EventDone, sse.Done{ID: id, Text: res.Text, Failed: res.Failed, Cached: res.Cached}); err != nil {
		a.deps.Log.Warn("client gone", "err", err)
		return false
	}
	return true
}

func (a *analysis) notice(level, message string) bool {
	if err := a.sw.Event(sse.EventNotice, sse.Notice{Level: level, Message: message}); err != nil {
		a.deps.Log.Warn("client gone", "err", err)
		return false
	}
	return true
}

func readReport(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return extract.Extract(extract.Document{
		Name:     fh.Filename,
		MIMEType: extract.DetectType(fh.Filename, fh.Header.Get("Content-Type"), data),
		Data:     data,
	})
}
