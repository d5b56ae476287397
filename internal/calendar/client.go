package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/planfor/planner-api/internal/domain"
)

type ClientOptions struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client
}

// Client talks to the Google Calendar REST API and the OAuth token endpoint.
type Client struct {
	baseURL      string
	tokenURL     string
	clientID     string
	clientSecret string
	http         *http.Client
}

const clientDefaultTimeout = 30 * time.Second

func NewClient(opts ClientOptions) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://www.googleapis.com/calendar/v3"
	}
	tokenURL := strings.TrimSpace(opts.TokenURL)
	if tokenURL == "" {
		tokenURL = "https://oauth2.googleapis.com/token"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: clientDefaultTimeout}
	}
	return &Client{
		baseURL:      baseURL,
		tokenURL:     tokenURL,
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		http:         httpClient,
	}
}

// Event is one calendar entry derived from a day task.
type Event struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
}

// InsertEvent creates one event on the user's primary calendar.
func (c *Client) InsertEvent(ctx context.Context, accessToken string, event Event) error {
	payload := map[string]any{
		"summary":     event.Summary,
		"description": event.Description,
		"start": map[string]string{
			"dateTime": event.Start.Format(time.RFC3339),
			"timeZone": event.TimeZone,
		},
		"end": map[string]string{
			"dateTime": event.End.Format(time.RFC3339),
			"timeZone": event.TimeZone,
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return fmt.Errorf("calendar: encode event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/calendars/primary/events", &buf)
	if err != nil {
		return fmt.Errorf("calendar: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calendar: insert event: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("calendar: insert event status %d", resp.StatusCode)
	}
	return nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// ExchangeCode trades an OAuth authorization code for a token bundle.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (*domain.GoogleTokens, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("redirect_uri", redirectURI)
	return c.requestToken(ctx, form, "")
}

// RefreshTokens obtains a fresh access token using the refresh grant. The
// token endpoint may omit the refresh token on refresh; the previous one is
// carried forward so the bundle stays usable.
func (c *Client) RefreshTokens(ctx context.Context, tokens domain.GoogleTokens) (*domain.GoogleTokens, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", tokens.RefreshToken)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	return c.requestToken(ctx, form, tokens.RefreshToken)
}

func (c *Client) requestToken(ctx context.Context, form url.Values, previousRefresh string) (*domain.GoogleTokens, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("calendar: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar: token request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("calendar: token endpoint status %d", resp.StatusCode)
	}
	var out tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("calendar: decode token response: %w", err)
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("calendar: token response missing access token")
	}
	refresh := out.RefreshToken
	if refresh == "" {
		refresh = previousRefresh
	}
	return &domain.GoogleTokens{
		AccessToken:  out.AccessToken,
		RefreshToken: refresh,
		ExpiryDate:   time.Now().Add(time.Duration(out.ExpiresIn) * time.Second),
	}, nil
}
