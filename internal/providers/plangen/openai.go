package plangen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/planfor/planner-api/internal/domain"
)

type OpenAIOptions struct {
	APIKey       string
	Model        string
	BaseURL      string
	Organization string
	HTTPClient   *http.Client
}

// OpenAIGenerator is the chat-completions alternative to Gemini, selected via
// PLANNER_PROVIDER. It uses the same system instruction and temperature 0.
type OpenAIGenerator struct {
	apiKey       string
	model        string
	baseURL      string
	organization string
	client       *http.Client
}

const (
	openAIDefaultTimeout = 60 * time.Second
	openAIDefaultModel   = "gpt-4o-mini"
)

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewOpenAIGenerator(opts OpenAIOptions) (*OpenAIGenerator, error) {
	if opts.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = openAIDefaultModel
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: openAIDefaultTimeout}
	}
	return &OpenAIGenerator{
		apiKey:       opts.APIKey,
		model:        model,
		baseURL:      baseURL,
		organization: strings.TrimSpace(opts.Organization),
		client:       client,
	}, nil
}

func (o *OpenAIGenerator) GeneratePlan(ctx context.Context, prompt string, today time.Time) (string, error) {
	payload := openAIChatRequest{
		Model: o.model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemInstruction()},
			{Role: "user", Content: buildUserPrompt(prompt, today)},
		},
		Temperature: 0,
		MaxTokens:   8192,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("%w: encode request: %v", domain.ErrGenerationService, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", &buf)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", domain.ErrGenerationService, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	if o.organization != "" {
		httpReq.Header.Set("OpenAI-Organization", o.organization)
	}
	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationService, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: openai status %d", domain.ErrGenerationService, resp.StatusCode)
	}
	var out openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrGenerationService, err)
	}
	for _, choice := range out.Choices {
		if strings.TrimSpace(choice.Message.Content) != "" {
			return choice.Message.Content, nil
		}
	}
	return "", fmt.Errorf("%w: empty completion", domain.ErrGenerationService)
}

var _ Generator = (*OpenAIGenerator)(nil)
