package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, endpoint string, maxRetries int) *Client {
	t.Helper()
	client, err := NewClient(NewClientParams{
		Endpoint:              endpoint,
		Model:                 "test-model",
		Temperature:           0.1,
		Timeout:               5 * time.Second,
		MaxRetries:            maxRetries,
		MaxConcurrentRequests: 2,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestGenerate(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":    "test-model",
			"response": `{"predicate":"is_a","confidence":0.9}`,
			"done":     true,
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 1)
	text, err := client.Generate(context.Background(), "judge this pair")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != `{"predicate":"is_a","confidence":0.9}` {
		t.Errorf("Generate() = %q", text)
	}

	if gotBody["model"] != "test-model" {
		t.Errorf("request model = %v", gotBody["model"])
	}
	if gotBody["prompt"] != "judge this pair" {
		t.Errorf("request prompt = %v", gotBody["prompt"])
	}
	if stream, ok := gotBody["stream"].(bool); !ok || stream {
		t.Errorf("request stream = %v, want false", gotBody["stream"])
	}
	options, _ := gotBody["options"].(map[string]any)
	if options["temperature"] != 0.1 {
		t.Errorf("request temperature = %v, want 0.1", options["temperature"])
	}
}

func TestGenerateRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "overloaded", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"response": "ok", "done": true})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 3)
	text, err := client.Generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != "ok" {
		t.Errorf("Generate() = %q", text)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestGenerateExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 2)
	if _, err := client.Generate(context.Background(), "p"); err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"models": []any{}})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 1)
	if !client.Available(context.Background()) {
		t.Error("Available() = false for a reachable endpoint")
	}
}

func TestAvailableUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(t, server.URL, 1)
	if client.Available(context.Background()) {
		t.Error("Available() = true for a closed endpoint")
	}
}
