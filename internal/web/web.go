// Package web holds the single-page front ends of both assistants.
package web

import (
	"embed"
	"fmt"
	"log/slog"
	"net/http"
)

// Page names.
const (
	Medical = "medical.html"
	Travel  = "travel.html"
)

//go:embed *.html
var pages embed.FS

// Page returns the embedded HTML for name.
func Page(name string) ([]byte, error) {
	b, err := pages.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", name, err)
	}
	return b, nil
}

// Handler serves page name. A missing page fails at startup rather than
// on the first request.
func Handler(log *slog.Logger, name string) (http.HandlerFunc, error) {
	body, err := Page(name)
	if err != nil {
		return nil, err
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if _, err := w.Write(body); err != nil {
			log.Warn("page write failed", "page", name, "err", err)
		}
	}, nil
}
