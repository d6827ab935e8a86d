package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chunkd/internal/chunker"
	"chunkd/internal/config"
	"chunkd/internal/pipeline"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Config{
		ChunkdAPIKey:   "test-key",
		WorkerCount:    1,
		MaxQueueSize:   4,
		MaxUploadBytes: 1 << 20,
		Chunking:       chunker.DefaultConfig(),
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := pipeline.NewOrchestrator(cfg, nil, nil, log)
	return NewServer(orch, log, cfg)
}

func TestHealthEndpointPublic(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestAuthRequired(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chunk", strings.NewReader(`{"text":"hi"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/chunk", strings.NewReader(`{"text":"hi"}`))
	req.Header.Set("Authorization", "Bearer wrong-key")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", rec.Code)
	}
}

func TestChunkEndpoint(t *testing.T) {
	srv := testServer(t)

	body := `{"text":"The first sentence of the request. The second sentence completes it nicely."}`
	req := httptest.NewRequest(http.MethodPost, "/api/chunk", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer test-key")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Chunks      []chunker.Chunk `json:"chunks"`
		TotalChunks int             `json:"total_chunks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalChunks != 1 || len(resp.Chunks) != 1 {
		t.Fatalf("expected one chunk, got %d", resp.TotalChunks)
	}
	if resp.Chunks[0].StartIndex != 0 {
		t.Errorf("expected chunk stream to start at 0, got %d", resp.Chunks[0].StartIndex)
	}
}

func TestChunkEndpointConfigOverride(t *testing.T) {
	srv := testServer(t)

	body := `{"text":"Short text.","overlap_ratio":0.5,"min_size":5,"target_size":50,"max_size":100}`
	req := httptest.NewRequest(http.MethodPost, "/api/chunk", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer test-key")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Config chunker.Config `json:"config"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Config.OverlapRatio != 0.5 || resp.Config.TargetSize != 50 {
		t.Errorf("expected overrides applied, got %+v", resp.Config)
	}
}

func TestChunkEndpointInvalidConfig(t *testing.T) {
	srv := testServer(t)

	body := `{"text":"Some text.","min_size":0}`
	req := httptest.NewRequest(http.MethodPost, "/api/chunk", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer test-key")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid config, got %d", rec.Code)
	}
}

func TestChunkEndpointMissingText(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chunk", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer test-key")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing text, got %d", rec.Code)
	}
}

func TestIngestStatusUnknownJob(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ingest/no-such-job/status", nil)
	req.Header.Set("Authorization", "Bearer test-key")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDocumentsWithoutSink(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer test-key")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a sink, got %d", rec.Code)
	}
}

func TestRefineStatsWithoutRefiner(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/stats/refine", nil)
	req.Header.Set("Authorization", "Bearer test-key")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a refiner, got %d", rec.Code)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"report.txt":           "report.txt",
		"../../etc/passwd":     "passwd",
		"dir/nested/file.md":   "file.md",
		"..":                    "_",
		"":                      "unnamed",
		"weird\\windowsMemo.md": "weird_windowsMemo.md",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
