package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		page  string
		title string
		api   string
	}{
		{Medical, "<title>Medical Report Analyzer</title>", "/api/analyze"},
		{Travel, "<title>Local Travel Assistant</title>", "/api/plan"},
	}

	for _, tt := range tests {
		t.Run(tt.page, func(t *testing.T) {
			h, err := Handler(log, tt.page)
			require.NoError(t, err)

			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.title)
			assert.Contains(t, rec.Body.String(), tt.api)
		})
	}
}

func TestHandlerUnknownPage(t *testing.T) {
	_, err := Handler(slog.New(slog.NewTextHandler(io.Discard, nil)), "missing.html")
	assert.Error(t, err)
}
