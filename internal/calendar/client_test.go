package calendar

import (
	"context"
	"encoding/json"
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

func TestInsertEvent_RequestShape(t *testing.T) {
	var captured *http.Request
	var body map[string]any
	client := NewClient(ClientOptions{
		BaseURL: "https://calendar.test/v3",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			captured = r
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			return jsonResponse(200, `{"id":"evt-1"}`), nil
		})},
	})

	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	err := client.InsertEvent(context.Background(), "token-1", Event{
		Summary:     "Learn Go (Day 1)",
		Description: "Install the toolchain",
		Start:       start,
		End:         start.Add(2 * time.Hour),
		TimeZone:    "UTC",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.URL.String() != "https://calendar.test/v3/calendars/primary/events" {
		t.Fatalf("endpoint: got %s", captured.URL)
	}
	if captured.Header.Get("Authorization") != "Bearer token-1" {
		t.Fatal("missing bearer token")
	}

	startBody := body["start"].(map[string]any)
	if startBody["dateTime"] != "2025-01-01T00:00:00Z" || startBody["timeZone"] != "UTC" {
		t.Fatalf("start: %v", startBody)
	}
	endBody := body["end"].(map[string]any)
	if endBody["dateTime"] != "2025-01-01T02:00:00Z" {
		t.Fatalf("end: %v", endBody)
	}
	if body["summary"] != "Learn Go (Day 1)" {
		t.Fatalf("summary: %v", body["summary"])
	}
}

func TestInsertEvent_StatusError(t *testing.T) {
	client := NewClient(ClientOptions{
		HTTPClient: &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return jsonResponse(403, `{"error":"forbidden"}`), nil
		})},
	})
	err := client.InsertEvent(context.Background(), "t", Event{})
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestExchangeCode(t *testing.T) {
	var form map[string][]string
	client := NewClient(ClientOptions{
		TokenURL:     "https://token.test/token",
		ClientID:     "cid",
		ClientSecret: "secret",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if err := r.ParseForm(); err != nil {
				t.Fatalf("parse form: %v", err)
			}
			form = r.PostForm
			return jsonResponse(200, `{"access_token":"at","refresh_token":"rt","expires_in":3600}`), nil
		})},
	})

	tokens, err := client.ExchangeCode(context.Background(), "auth-code", "https://app.test/cb")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens.AccessToken != "at" || tokens.RefreshToken != "rt" {
		t.Fatalf("tokens: %+v", tokens)
	}
	if tokens.ExpiryDate.Before(time.Now().Add(30 * time.Minute)) {
		t.Fatalf("expiry too soon: %v", tokens.ExpiryDate)
	}

	if form["grant_type"][0] != "authorization_code" || form["code"][0] != "auth-code" {
		t.Fatalf("form: %v", form)
	}
	if form["client_id"][0] != "cid" || form["redirect_uri"][0] != "https://app.test/cb" {
		t.Fatalf("form: %v", form)
	}
}

func TestRefreshTokens_CarriesForwardRefreshToken(t *testing.T) {
	client := NewClient(ClientOptions{
		TokenURL: "https://token.test/token",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return jsonResponse(200, `{"access_token":"new-at","expires_in":3600}`), nil
		})},
	})

	tokens, err := client.RefreshTokens(context.Background(), domain.GoogleTokens{
		AccessToken:  "old-at",
		RefreshToken: "keep-me",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens.AccessToken != "new-at" {
		t.Fatalf("access token: %q", tokens.AccessToken)
	}
	if tokens.RefreshToken != "keep-me" {
		t.Fatalf("refresh token must carry forward, got %q", tokens.RefreshToken)
	}
}

func TestRefreshTokens_MissingAccessToken(t *testing.T) {
	client := NewClient(ClientOptions{
		TokenURL: "https://token.test/token",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return jsonResponse(200, `{}`), nil
		})},
	})
	if _, err := client.RefreshTokens(context.Background(), domain.GoogleTokens{RefreshToken: "rt"}); err == nil {
		t.Fatal("expected error for empty access token")
	}
}
