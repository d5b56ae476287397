package plangen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/planfor/planner-api/internal/domain"
)

type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// GeminiGenerator calls the Gemini generateContent REST endpoint with a fixed
// deterministic sampling profile.
type GeminiGenerator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

const (
	geminiDefaultTimeout = 60 * time.Second
	geminiDefaultModel   = "gemini-2.0-flash-lite"
)

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

// geminiGenerationConfig carries the deterministic profile. Fields are not
// omitempty: temperature 0 must be serialized explicitly.
type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"topP"`
	TopK             int     `json:"topK"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func NewGeminiGenerator(opts GeminiOptions) (*GeminiGenerator, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = geminiDefaultModel
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: geminiDefaultTimeout}
	}
	return &GeminiGenerator{
		apiKey:  opts.APIKey,
		model:   model,
		baseURL: baseURL,
		client:  client,
	}, nil
}

func (g *GeminiGenerator) GeneratePlan(ctx context.Context, prompt string, today time.Time) (string, error) {
	payload := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemInstruction()}},
		},
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: buildUserPrompt(prompt, today)}},
		}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:      0,
			TopP:             0.95,
			TopK:             40,
			MaxOutputTokens:  8192,
			ResponseMimeType: "text/plain",
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("%w: encode request: %v", domain.ErrGenerationService, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), &buf)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", domain.ErrGenerationService, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationService, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: gemini status %d", domain.ErrGenerationService, resp.StatusCode)
	}
	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrGenerationService, err)
	}
	text := extractText(out)
	if text == "" {
		return "", fmt.Errorf("%w: empty candidate text", domain.ErrGenerationService)
	}
	return text, nil
}

func (g *GeminiGenerator) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
}

func extractText(resp geminiResponse) string {
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}

var _ Generator = (*GeminiGenerator)(nil)
