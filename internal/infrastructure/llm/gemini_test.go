package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"SecurityWatchdog/internal/config"
)

func TestGeminiClientGenerate(t *testing.T) {
	t.Parallel()

	var gotPath, gotKey string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"the digest"}]}}]}`))
	}))
	defer server.Close()

	c := NewGeminiClient(config.GeminiConfig{
		Endpoint: server.URL,
		Model:    "gemini-1.5-flash-latest",
		APIKey:   "test-key",
	})
	c.httpClient = server.Client()

	report, err := c.Generate(context.Background(), "summarize this")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if report != "the digest" {
		t.Fatalf("unexpected report: %q", report)
	}

	if !strings.Contains(gotPath, "models/gemini-1.5-flash-latest:generateContent") {
		t.Fatalf("unexpected request path: %s", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("api key not sent as query parameter")
	}
	if gotBody["contents"] == nil {
		t.Fatalf("prompt not sent in request body")
	}
}

func TestGeminiClientMisconfigured(t *testing.T) {
	t.Parallel()

	c := NewGeminiClient(config.GeminiConfig{Endpoint: "https://example.org", Model: "m"})
	if c.Configured() {
		t.Fatalf("client without api key must report unconfigured")
	}
	if _, err := c.Generate(context.Background(), "p"); err == nil {
		t.Fatalf("expected a misconfiguration error")
	}
}

func TestGeminiClientAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"API key not valid"}}`))
	}))
	defer server.Close()

	c := NewGeminiClient(config.GeminiConfig{Endpoint: server.URL, Model: "m", APIKey: "bad"})
	c.httpClient = server.Client()

	_, err := c.Generate(context.Background(), "p")
	if err == nil {
		t.Fatalf("expected an error for HTTP 401")
	}
	if !strings.Contains(err.Error(), "API key not valid") {
		t.Fatalf("error should carry the API response: %v", err)
	}
}

func TestGeminiClientNoCandidates(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	c := NewGeminiClient(config.GeminiConfig{Endpoint: server.URL, Model: "m", APIKey: "k"})
	c.httpClient = server.Client()

	if _, err := c.Generate(context.Background(), "p"); err == nil {
		t.Fatalf("expected an error for empty candidates")
	}
}
