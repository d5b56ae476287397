package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/planfor/planner-api/internal/domain"
)

// Normalize strips at most one surrounding markdown code fence from the raw
// model output and strictly parses the remainder. There is no heuristic
// extraction beyond the fence strip: prose around the payload is a
// malformed-output failure, never partially recovered.
func Normalize(raw string) (*Candidate, error) {
	text := stripCodeFence(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response text", domain.ErrMalformedOutput)
	}
	var candidate Candidate
	if err := json.Unmarshal([]byte(text), &candidate); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedOutput, err)
	}
	return &candidate, nil
}

// stripCodeFence removes a leading ```json (or bare ```) line and a trailing
// ``` line when both ends look fenced.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
