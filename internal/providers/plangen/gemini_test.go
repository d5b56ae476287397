package plangen

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/planfor/planner-api/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func jsonResponse(code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func testToday() time.Time {
	return time.Date(2025, time.January, 1, 8, 0, 0, 0, time.UTC)
}

func TestGeminiGeneratePlan_RequestShape(t *testing.T) {
	var captured *http.Request
	var body map[string]any
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		captured = r
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		return jsonResponse(200, `{"candidates":[{"content":{"parts":[{"text":"{\"ok\":true}"}]}}]}`), nil
	})}

	gen, err := NewGeminiGenerator(GeminiOptions{APIKey: "key-123", BaseURL: "https://example.test/v1beta", HTTPClient: client})
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	text, err := gen.GeneratePlan(context.Background(), "learn go in 6 days", testToday())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != `{"ok":true}` {
		t.Fatalf("text: got %q", text)
	}

	if captured.URL.String() != "https://example.test/v1beta/models/gemini-2.0-flash-lite:generateContent" {
		t.Fatalf("endpoint: got %s", captured.URL)
	}
	if captured.Header.Get("x-goog-api-key") != "key-123" {
		t.Fatal("missing api key header")
	}

	cfg, ok := body["generationConfig"].(map[string]any)
	if !ok {
		t.Fatalf("generationConfig missing: %v", body)
	}
	if cfg["temperature"] != float64(0) || cfg["topP"] != 0.95 || cfg["topK"] != float64(40) {
		t.Fatalf("sampling config: %v", cfg)
	}
	if cfg["maxOutputTokens"] != float64(8192) || cfg["responseMimeType"] != "text/plain" {
		t.Fatalf("output config: %v", cfg)
	}

	contents := body["contents"].([]any)
	part := contents[0].(map[string]any)["parts"].([]any)[0].(map[string]any)
	userText := part["text"].(string)
	if !strings.HasPrefix(userText, "Current date: 2025-01-01.") {
		t.Fatalf("user prompt missing date anchor: %q", userText)
	}
	if !strings.Contains(userText, "learn go in 6 days") {
		t.Fatalf("user prompt missing goal: %q", userText)
	}

	if _, ok := body["systemInstruction"]; !ok {
		t.Fatal("systemInstruction missing")
	}
}

func TestGeminiGeneratePlan_UpstreamStatusError(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(500, `{"error":"boom"}`), nil
	})}
	gen, _ := NewGeminiGenerator(GeminiOptions{APIKey: "k", HTTPClient: client})

	_, err := gen.GeneratePlan(context.Background(), "p", testToday())
	if !errors.Is(err, domain.ErrGenerationService) {
		t.Fatalf("expected ErrGenerationService, got %v", err)
	}
}

func TestGeminiGeneratePlan_TransportError(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})}
	gen, _ := NewGeminiGenerator(GeminiOptions{APIKey: "k", HTTPClient: client})

	_, err := gen.GeneratePlan(context.Background(), "p", testToday())
	if !errors.Is(err, domain.ErrGenerationService) {
		t.Fatalf("expected ErrGenerationService, got %v", err)
	}
}

func TestGeminiGeneratePlan_EmptyCandidate(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"candidates":[]}`), nil
	})}
	gen, _ := NewGeminiGenerator(GeminiOptions{APIKey: "k", HTTPClient: client})

	_, err := gen.GeneratePlan(context.Background(), "p", testToday())
	if !errors.Is(err, domain.ErrGenerationService) {
		t.Fatalf("expected ErrGenerationService, got %v", err)
	}
}

func TestNewGeminiGenerator_RequiresKey(t *testing.T) {
	if _, err := NewGeminiGenerator(GeminiOptions{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
