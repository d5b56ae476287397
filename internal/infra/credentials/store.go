package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/planfor/planner-api/internal/infra"
	"github.com/planfor/planner-api/internal/sqlinline"
)

// Providers with API keys that may live in the database instead of the
// environment. The planner falls back to the store when env config is empty.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

func (s *Store) GeminiAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderGemini)
}

func (s *Store) OpenAIAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderOpenAI)
}

func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(token), nil
}

// SetAPIKey upserts the key for a known provider.
func (s *Store) SetAPIKey(ctx context.Context, provider, key string) error {
	switch provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("unsupported provider %q", provider)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("api key is required")
	}
	return s.upsert(ctx, provider, key, nil)
}

func (s *Store) upsert(ctx context.Context, provider, token string, props map[string]any) error {
	payload := props
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, token, raw)
	return err
}
