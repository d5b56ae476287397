package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/planfor/planner-api/internal/calendar"
	"github.com/planfor/planner-api/internal/domain"
	"github.com/planfor/planner-api/internal/infra"
	"github.com/planfor/planner-api/internal/providers/plangen"
)

// CalendarMirror is the optional post-persistence step. Implementations must
// treat every event insert as isolated: per-task failures are reported in the
// result list, never as an error.
type CalendarMirror interface {
	Refresh(ctx context.Context, tokens domain.GoogleTokens) (*domain.GoogleTokens, error)
	Sync(ctx context.Context, roadmap *domain.Roadmap, accessToken string) []calendar.EventResult
}

// Service runs the prompt-to-plan pipeline: generate, normalize, reconcile,
// persist, then best-effort calendar mirroring. Everything before and
// including the storage write is all-or-nothing.
type Service struct {
	generator plangen.Generator
	roadmaps  domain.RoadmapRepository
	users     domain.UserRepository
	mirror    CalendarMirror
	logger    infra.Logger
	now       func() time.Time
}

type ServiceOptions struct {
	Generator plangen.Generator
	Roadmaps  domain.RoadmapRepository
	Users     domain.UserRepository
	Mirror    CalendarMirror
	Logger    infra.Logger
	Now       func() time.Time
}

func NewService(opts ServiceOptions) (*Service, error) {
	if opts.Generator == nil {
		return nil, errors.New("planner: generator is required")
	}
	if opts.Roadmaps == nil {
		return nil, errors.New("planner: roadmap repository is required")
	}
	if opts.Users == nil {
		return nil, errors.New("planner: user repository is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		generator: opts.Generator,
		roadmaps:  opts.Roadmaps,
		users:     opts.Users,
		mirror:    opts.Mirror,
		logger:    opts.Logger,
		now:       now,
	}, nil
}

type CreateRequest struct {
	UserID      string
	Title       string
	Description string
	Prompt      string
	// Locale is the requester's language preference. Non-English locales
	// steer the wording of the generated plan.
	Locale string
}

// Create runs the full pipeline for one prompt and returns the persisted
// aggregate. Calendar mirroring happens after the aggregate is committed and
// cannot fail the call.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Roadmap, error) {
	if req.Prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", domain.ErrSchemaValidation)
	}

	prompt := req.Prompt
	if name := languageName(req.Locale); name != "" {
		prompt = fmt.Sprintf("%s\n\nWrite all objectives and task descriptions in %s.", prompt, name)
	}

	raw, err := s.generator.GeneratePlan(ctx, prompt, s.now())
	if err != nil {
		return nil, err
	}

	candidate, err := Normalize(raw)
	if err != nil {
		// The raw payload goes to the log for diagnosis, never to the caller.
		s.logger.Error().Err(err).Str("raw_response", raw).Msg("planner: response not parseable")
		return nil, err
	}

	roadmap, err := Reconcile(candidate)
	if err != nil {
		return nil, err
	}

	roadmap.ID = uuid.NewString()
	roadmap.UserID = req.UserID
	roadmap.Title = req.Title
	roadmap.Description = req.Description

	stored, err := s.roadmaps.Create(ctx, roadmap)
	if err != nil {
		return nil, err
	}

	s.mirrorToCalendar(ctx, stored)

	return stored, nil
}

func (s *Service) mirrorToCalendar(ctx context.Context, roadmap *domain.Roadmap) {
	if s.mirror == nil {
		return
	}
	user, err := s.users.GetByID(ctx, roadmap.UserID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", roadmap.UserID).Msg("planner: calendar sync skipped, user lookup failed")
		return
	}
	if !user.HasCalendarLinked() {
		s.logger.Debug().Str("user_id", user.ID).Msg("planner: no calendar linked, sync skipped")
		return
	}

	tokens := *user.GoogleTokens
	if tokens.Expired(s.now()) {
		fresh, err := s.mirror.Refresh(ctx, tokens)
		if err != nil {
			s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("planner: token refresh failed, calendar sync skipped")
			return
		}
		if err := s.users.SaveGoogleTokens(ctx, user.ID, fresh); err != nil {
			s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("planner: failed to persist refreshed tokens")
		}
		tokens = *fresh
	}

	results := s.mirror.Sync(ctx, roadmap, tokens.AccessToken)
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		s.logger.Warn().
			Str("roadmap_id", roadmap.ID).
			Int("events_failed", failed).
			Int("events_total", len(results)).
			Msg("planner: calendar sync finished with failures")
	} else {
		s.logger.Info().
			Str("roadmap_id", roadmap.ID).
			Int("events_total", len(results)).
			Msg("planner: calendar sync complete")
	}
}

// languageName resolves a locale code to its English language name for the
// prompt directive. English and unknown codes return "" so the prompt is
// left untouched.
func languageName(locale string) string {
	locale = strings.TrimSpace(strings.ToLower(locale))
	if locale == "" || locale == "en" {
		return ""
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return ""
	}
	name := display.English.Languages().Name(tag)
	if strings.EqualFold(name, locale) {
		// display falls back to echoing the code for tags it cannot name.
		return ""
	}
	return name
}
