package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/planfor/planner-api/internal/domain"
	"github.com/planfor/planner-api/internal/infra"
	"github.com/planfor/planner-api/internal/middleware"
	"github.com/planfor/planner-api/internal/planner"
)

// PlanCreator runs the prompt-to-plan pipeline. It is the only write path for
// roadmaps.
type PlanCreator interface {
	Create(ctx context.Context, req planner.CreateRequest) (*domain.Roadmap, error)
}

// CalendarAuth exchanges and inspects external-calendar credentials.
type CalendarAuth interface {
	ExchangeCode(ctx context.Context, code, redirectURI string) (*domain.GoogleTokens, error)
}

// App bundles the dependencies shared by all HTTP handlers.
type App struct {
	SQL          infra.SQLExecutor
	Logger       infra.Logger
	JWTSecret    string
	Planner      PlanCreator
	Roadmaps     domain.RoadmapRepository
	Users        domain.UserRepository
	CalendarAuth CalendarAuth
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, message string) {
	a.json(w, code, map[string]any{
		"error":   slug,
		"message": message,
	})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
