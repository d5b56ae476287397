package plangen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/planfor/planner-api/internal/domain"
)

func TestOpenAIGeneratePlan_RequestShape(t *testing.T) {
	var captured *http.Request
	var body openAIChatRequest
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		captured = r
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		return jsonResponse(200, `{"choices":[{"message":{"content":"{\"ok\":true}"}}]}`), nil
	})}

	gen, err := NewOpenAIGenerator(OpenAIOptions{
		APIKey:       "sk-test",
		BaseURL:      "https://example.test/v1",
		Organization: "org-1",
		HTTPClient:   client,
	})
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

	if captured.URL.String() != "https://example.test/v1/chat/completions" {
		t.Fatalf("endpoint: got %s", captured.URL)
	}
	if captured.Header.Get("Authorization") != "Bearer sk-test" {
		t.Fatal("missing bearer token")
	}
	if captured.Header.Get("OpenAI-Organization") != "org-1" {
		t.Fatal("missing organization header")
	}

	if body.Model != "gpt-4o-mini" {
		t.Fatalf("model: got %q", body.Model)
	}
	if body.Temperature != 0 || body.MaxTokens != 8192 {
		t.Fatalf("sampling config: %+v", body)
	}
	if len(body.Messages) != 2 || body.Messages[0].Role != "system" || body.Messages[1].Role != "user" {
		t.Fatalf("messages: %+v", body.Messages)
	}
	if !strings.HasPrefix(body.Messages[1].Content, "Current date: 2025-01-01.") {
		t.Fatalf("user prompt missing date anchor: %q", body.Messages[1].Content)
	}
}

func TestOpenAIGeneratePlan_UpstreamStatusError(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(429, `{"error":"rate limited"}`), nil
	})}
	gen, _ := NewOpenAIGenerator(OpenAIOptions{APIKey: "k", HTTPClient: client})

	_, err := gen.GeneratePlan(context.Background(), "p", testToday())
	if !errors.Is(err, domain.ErrGenerationService) {
		t.Fatalf("expected ErrGenerationService, got %v", err)
	}
}

func TestOpenAIGeneratePlan_EmptyCompletion(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"choices":[{"message":{"content":"  "}}]}`), nil
	})}
	gen, _ := NewOpenAIGenerator(OpenAIOptions{APIKey: "k", HTTPClient: client})

	_, err := gen.GeneratePlan(context.Background(), "p", testToday())
	if !errors.Is(err, domain.ErrGenerationService) {
		t.Fatalf("expected ErrGenerationService, got %v", err)
	}
}

func TestNewOpenAIGenerator_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIGenerator(OpenAIOptions{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
