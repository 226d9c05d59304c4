package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"local-assistants/internal/app"
	"local-assistants/internal/cache"
	"local-assistants/internal/config"
	"local-assistants/internal/events"
	"local-assistants/internal/llm"
	"local-assistants/internal/prompt"
	"local-assistants/internal/store"
)

// fakeLLM answers every call with a fresh stream and records the pairs.
type fakeLLM struct {
	mu      sync.Mutex
	pairs   []prompt.Pair
	chunks  []string
	openErr error
}

func (f *fakeLLM) Stream(_ context.Context, pair prompt.Pair) (llm.Stream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pairs = append(f.pairs, pair)
	if f.openErr != nil {
		return nil, f.openErr
	}
	return llm.NewStaticStream(f.chunks, nil), nil
}

func (f *fakeLLM) Model() string { return "test-model" }

func newTestDeps(client llm.Client, maxUpload int64) app.Deps {
	cfg := config.Config{
		MaxUploadSize:   maxUpload,
		ReportCharLimit: 2000,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return app.New(cfg, log, client, cache.NewNoOpCache(), store.NewNoOpStore(), events.NoOpPublisher{})
}

type upload struct {
	filename    string
	contentType string
	content     []byte
}

func createMultipartRequest(files []upload, query string) (*http.Request, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="files"; filename="`+f.filename+`"`)
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, err := writer.CreatePart(h)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(f.content); err != nil {
			return nil, err
		}
	}
	if err := writer.WriteField("query", query); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req, nil
}

type event struct {
	Name string
	Data map[string]any
}

func parseEvents(t *testing.T, body string) []event {
	t.Helper()
	var out []event
	for _, block := range strings.Split(strings.TrimSpace(body), "\n\n") {
		var ev event
		for _, line := range strings.Split(block, "\n") {
			switch {
			case strings.HasPrefix(line, "event: "):
				ev.Name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev.Data))
			}
		}
		out = append(out, ev)
	}
	return out
}

func sectionIDs(events []event) []string {
	var ids []string
	for _, ev := range events {
		if ev.Name == "section" {
			ids = append(ids, ev.Data["id"].(string))
		}
	}
	return ids
}

func TestAnalyzeHandlerStreamsEveryAnalysis(t *testing.T) {
	client := &fakeLLM{chunks: []string{"Hemoglobin ", "is normal"}}
	deps := newTestDeps(client, 1024*1024)

	req, err := createMultipartRequest([]upload{
		{filename: "cbc.txt", contentType: "text/plain", content: []byte("Hemoglobin 13.5 g/dL")},
		{filename: "lipids.txt", content: []byte("LDL 160 mg/dL")},
	}, "Is anything abnormal?")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	analyzeHandler(deps)(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	evs := parseEvents(t, w.Body.String())
	assert.Equal(t, []string{
		"r1-main", "r1-key-findings", "r1-health-risks",
		"r2-main", "r2-key-findings", "r2-health-risks",
		"cross",
	}, sectionIDs(evs))

	// section, partial, partial, done for each of the seven calls
	require.Len(t, evs, 28)
	assert.Equal(t, "Analysis of cbc.txt: Main Analysis", evs[0].Data["title"])
	assert.Equal(t, "Hemoglobin ", evs[1].Data["text"])
	assert.Equal(t, "Hemoglobin is normal", evs[2].Data["text"])
	assert.Equal(t, "done", evs[3].Name)
	assert.Equal(t, "Hemoglobin is normal", evs[3].Data["text"])
	assert.Equal(t, false, evs[3].Data["failed"])

	require.Len(t, client.pairs, 7)
	assert.Contains(t, client.pairs[0].User, "Report Text: Hemoglobin 13.5 g/dL...")
	assert.Contains(t, client.pairs[0].User, "Query: Is anything abnormal?")
	assert.Contains(t, client.pairs[1].User, "Query: Extract and summarize key medical findings")
	assert.Contains(t, client.pairs[2].User, "Query: Identify potential health risks")
	assert.Contains(t, client.pairs[3].User, "LDL 160 mg/dL")
	assert.Contains(t, client.pairs[6].User, "Report 1 (cbc.txt)")
	assert.Contains(t, client.pairs[6].User, "Report 2 (lipids.txt)")
}

func TestAnalyzeHandlerReportsUnreadableFiles(t *testing.T) {
	client := &fakeLLM{chunks: []string{"ok"}}
	deps := newTestDeps(client, 1024*1024)

	req, err := createMultipartRequest([]upload{
		{filename: "scan.txt", contentType: "text/plain", content: []byte{0xff, 0xfe, 0x00}},
		{filename: "notes.txt", contentType: "text/plain", content: []byte("BP 120/80")},
	}, "")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	analyzeHandler(deps)(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	evs := parseEvents(t, w.Body.String())
	require.NotEmpty(t, evs)
	assert.Equal(t, "notice", evs[0].Name)
	assert.Contains(t, evs[0].Data["message"], "Could not read scan.txt")

	// one readable report: no cross-report analysis
	assert.Equal(t, []string{"r2-main", "r2-key-findings", "r2-health-risks"}, sectionIDs(evs))
	assert.Len(t, client.pairs, 3)
}

func TestAnalyzeHandlerModelFailure(t *testing.T) {
	client := &fakeLLM{openErr: errors.New("connection refused")}
	deps := newTestDeps(client, 1024*1024)

	req, err := createMultipartRequest([]upload{
		{filename: "a.txt", contentType: "text/plain", content: []byte("text")},
	}, "q")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	analyzeHandler(deps)(w, req)

	evs := parseEvents(t, w.Body.String())
	var dones []event
	for _, ev := range evs {
		if ev.Name == "done" {
			dones = append(dones, ev)
		}
	}
	require.Len(t, dones, 3)
	for _, d := range dones {
		assert.Equal(t, true, d.Data["failed"])
		assert.Equal(t, "Error: connection refused", d.Data["text"])
	}
}

func TestAnalyzeHandlerRejectsBadRequests(t *testing.T) {
	many := make([]upload, 11)
	for i := range many {
		many[i] = upload{filename: "r.txt", contentType: "text/plain", content: []byte("x")}
	}

	tests := []struct {
		name      string
		files     []upload
		query     string
		maxUpload int64
	}{
		{name: "no files", maxUpload: 1024 * 1024},
		{name: "too many files", files: many, maxUpload: 1024 * 1024},
		{
			name:      "query too long",
			files:     []upload{{filename: "a.txt", content: []byte("x")}},
			query:     strings.Repeat("q", 2001),
			maxUpload: 1024 * 1024,
		},
		{
			name:      "upload too large",
			files:     []upload{{filename: "big.txt", content: make([]byte, 4096)}},
			maxUpload: 1024,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeLLM{}
			deps := newTestDeps(client, tt.maxUpload)

			req, err := createMultipartRequest(tt.files, tt.query)
			require.NoError(t, err)

			w := httptest.NewRecorder()
			analyzeHandler(deps)(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, client.pairs)
		})
	}
}

func TestRouter(t *testing.T) {
	deps := newTestDeps(&fakeLLM{}, 1024)
	r, err := newRouter(deps)
	require.NoError(t, err)

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	page, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(page), "Medical Report Analyzer")

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/history")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
