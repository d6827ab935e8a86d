package refine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func refineResponse(t *testing.T, refined []string) string {
	t.Helper()
	arr, err := json.Marshal(refined)
	if err != nil {
		t.Fatal(err)
	}
	body, err := json.Marshal(map[string]any{
		"content": []map[string]string{
			{"type": "text", "text": string(arr)},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return string(body)
}

func TestRefineBatchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Errorf("missing version header")
		}
		var req apiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if !strings.Contains(req.Messages[0].Content, "--- chunk 1 ---") {
			t.Errorf("prompt missing chunk marker: %q", req.Messages[0].Content)
		}
		w.Write([]byte(refineResponse(t, []string{"refined one", "refined two"})))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "test-model")
	got, err := c.RefineBatch(context.Background(), []string{"raw one", "raw two"})
	if err != nil {
		t.Fatalf("RefineBatch: %v", err)
	}
	if len(got) != 2 || got[0] != "refined one" || got[1] != "refined two" {
		t.Fatalf("unexpected result: %v", got)
	}
	if c.Stats.Snapshot().Count != 1 {
		t.Fatalf("expected one recorded latency sample")
	}
}

func TestRefineBatchStripsCodeFence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := json.Marshal(map[string]any{
			"content": []map[string]string{
				{"type": "text", "text": "```json\n[\"cleaned\"]\n```"},
			},
		})
		w.Write(body)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "m")
	got, err := c.RefineBatch(context.Background(), []string{"raw"})
	if err != nil {
		t.Fatalf("RefineBatch: %v", err)
	}
	if len(got) != 1 || got[0] != "cleaned" {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestRefineBatchCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(refineResponse(t, []string{"only one"})))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "m")
	_, err := c.RefineBatch(context.Background(), []string{"one", "two"})
	if err == nil {
		t.Fatal("expected error for count mismatch")
	}
}

func TestRefineBatchRetryableStatuses(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		c := NewClient(srv.URL, "k", "m")
		_, err := c.RefineBatch(context.Background(), []string{"text"})
		srv.Close()

		var re *RetryableError
		if !errors.As(err, &re) {
			t.Fatalf("status %d: expected RetryableError, got %v", status, err)
		}
		if re.StatusCode != status {
			t.Fatalf("expected status %d, got %d", status, re.StatusCode)
		}
	}
}

func TestRefineBatchTerminalStatusNotRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "m")
	_, err := c.RefineBatch(context.Background(), []string{"text"})
	if err == nil {
		t.Fatal("expected error")
	}
	var re *RetryableError
	if errors.As(err, &re) {
		t.Fatalf("400 must not be retryable: %v", err)
	}
}

func TestRefineBatchBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"bad prompt"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "m")
	_, err := c.RefineBatch(context.Background(), []string{"text"})
	if err == nil || !strings.Contains(err.Error(), "invalid_request_error") {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestRefineBatchEmptyInput(t *testing.T) {
	c := NewClient("http://unused", "k", "m")
	got, err := c.RefineBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil result, got %v", got)
	}
}

func TestBuildBatchPrompt(t *testing.T) {
	prompt := BuildBatchPrompt([]string{"first text", "second text"})
	if !strings.Contains(prompt, "2 chunks") {
		t.Errorf("prompt missing count: %q", prompt)
	}
	if !strings.Contains(prompt, "--- chunk 1 ---\nfirst text") {
		t.Errorf("prompt missing first chunk: %q", prompt)
	}
	if !strings.Contains(prompt, "--- chunk 2 ---\nsecond text") {
		t.Errorf("prompt missing second chunk: %q", prompt)
	}
}

func TestStripCodeBlock(t *testing.T) {
	cases := map[string]string{
		"```json\n[\"a\"]\n```": `["a"]`,
		"```\n[\"a\"]\n```":     `["a"]`,
		`["a"]`:                 `["a"]`,
		"  [\"a\"]  ":           `["a"]`,
	}
	for in, want := range cases {
		if got := stripCodeBlock(in); got != want {
			t.Errorf("stripCodeBlock(%q) = %q, want %q", in, got, want)
		}
	}
}
