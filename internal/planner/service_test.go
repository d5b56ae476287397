package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/planfor/planner-api/internal/calendar"
	"github.com/planfor/planner-api/internal/domain"
)

type fakeGenerator struct {
	response string
	err      error
	prompts  []string
	today    time.Time
}

func (f *fakeGenerator) GeneratePlan(_ context.Context, prompt string, today time.Time) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.today = today
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeRoadmapRepo struct {
	created []*domain.Roadmap
	err     error
}

func (f *fakeRoadmapRepo) Create(_ context.Context, roadmap *domain.Roadmap) (*domain.Roadmap, error) {
	if f.err != nil {
		return nil, f.err
	}
	stored := *roadmap
	stored.CreatedAt = time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	f.created = append(f.created, &stored)
	return &stored, nil
}

func (f *fakeRoadmapRepo) GetByID(context.Context, string) (*domain.Roadmap, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeRoadmapRepo) ListByUser(context.Context, string) ([]domain.Roadmap, error) {
	return nil, nil
}

func (f *fakeRoadmapRepo) Delete(context.Context, string) error { return nil }

type fakeUserRepo struct {
	user       *domain.User
	savedToken *domain.GoogleTokens
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	return user, nil
}

func (f *fakeUserRepo) GetByID(context.Context, string) (*domain.User, error) {
	if f.user == nil {
		return nil, domain.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) SaveGoogleTokens(_ context.Context, _ string, tokens *domain.GoogleTokens) error {
	f.savedToken = tokens
	return nil
}

type fakeMirror struct {
	refreshed  *domain.GoogleTokens
	refreshErr error
	synced     int
	syncToken  string
	results    []calendar.EventResult
}

func (f *fakeMirror) Refresh(_ context.Context, _ domain.GoogleTokens) (*domain.GoogleTokens, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.refreshed, nil
}

func (f *fakeMirror) Sync(_ context.Context, _ *domain.Roadmap, accessToken string) []calendar.EventResult {
	f.synced++
	f.syncToken = accessToken
	return f.results
}

func newTestService(t *testing.T, gen *fakeGenerator, roadmaps *fakeRoadmapRepo, users *fakeUserRepo, mirror CalendarMirror) *Service {
	t.Helper()
	svc, err := NewService(ServiceOptions{
		Generator: gen,
		Roadmaps:  roadmaps,
		Users:     users,
		Mirror:    mirror,
		Logger:    zerolog.Nop(),
		Now:       func() time.Time { return time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestServiceCreate_PersistsReconciledPlan(t *testing.T) {
	gen := &fakeGenerator{response: samplePlanJSON}
	roadmaps := &fakeRoadmapRepo{}
	users := &fakeUserRepo{}
	svc := newTestService(t, gen, roadmaps, users, nil)

	roadmap, err := svc.Create(context.Background(), CreateRequest{
		UserID: "user-1",
		Title:  "Learn Go",
		Prompt: "learn go in 6 days",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if roadmap.ID == "" {
		t.Fatal("expected generated id")
	}
	if roadmap.UserID != "user-1" || roadmap.Title != "Learn Go" {
		t.Fatalf("ownership fields: %+v", roadmap)
	}
	if len(roadmaps.created) != 1 {
		t.Fatalf("expected 1 persisted roadmap, got %d", len(roadmaps.created))
	}
	if len(roadmap.Phases) != 2 {
		t.Fatalf("phases: got %d", len(roadmap.Phases))
	}
	if !gen.today.Equal(time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("generator today: got %v", gen.today)
	}
}

func TestServiceCreate_GenerationErrorDoesNotPersist(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("%w: upstream 500", domain.ErrGenerationService)}
	roadmaps := &fakeRoadmapRepo{}
	svc := newTestService(t, gen, roadmaps, &fakeUserRepo{}, nil)

	_, err := svc.Create(context.Background(), CreateRequest{UserID: "u", Prompt: "p"})
	if !errors.Is(err, domain.ErrGenerationService) {
		t.Fatalf("expected ErrGenerationService, got %v", err)
	}
	if len(roadmaps.created) != 0 {
		t.Fatal("nothing may be persisted on generation failure")
	}
}

func TestServiceCreate_MalformedOutputDoesNotPersist(t *testing.T) {
	gen := &fakeGenerator{response: "sorry, I cannot help with that"}
	roadmaps := &fakeRoadmapRepo{}
	svc := newTestService(t, gen, roadmaps, &fakeUserRepo{}, nil)

	_, err := svc.Create(context.Background(), CreateRequest{UserID: "u", Prompt: "p"})
	if !errors.Is(err, domain.ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
	if len(roadmaps.created) != 0 {
		t.Fatal("nothing may be persisted on malformed output")
	}
}

func TestServiceCreate_EmptyPromptRejected(t *testing.T) {
	svc := newTestService(t, &fakeGenerator{response: samplePlanJSON}, &fakeRoadmapRepo{}, &fakeUserRepo{}, nil)
	_, err := svc.Create(context.Background(), CreateRequest{UserID: "u"})
	if !errors.Is(err, domain.ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
}

func TestServiceCreate_SkipsMirrorWithoutLinkedCalendar(t *testing.T) {
	mirror := &fakeMirror{}
	users := &fakeUserRepo{user: &domain.User{ID: "user-1"}}
	svc := newTestService(t, &fakeGenerator{response: samplePlanJSON}, &fakeRoadmapRepo{}, users, mirror)

	if _, err := svc.Create(context.Background(), CreateRequest{UserID: "user-1", Prompt: "p"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mirror.synced != 0 {
		t.Fatal("mirror must be skipped when no calendar is linked")
	}
}

func TestServiceCreate_MirrorsWithFreshToken(t *testing.T) {
	mirror := &fakeMirror{}
	users := &fakeUserRepo{user: &domain.User{
		ID: "user-1",
		GoogleTokens: &domain.GoogleTokens{
			AccessToken:  "live-token",
			RefreshToken: "refresh",
			ExpiryDate:   time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
	svc := newTestService(t, &fakeGenerator{response: samplePlanJSON}, &fakeRoadmapRepo{}, users, mirror)

	if _, err := svc.Create(context.Background(), CreateRequest{UserID: "user-1", Prompt: "p"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mirror.synced != 1 {
		t.Fatalf("expected one sync, got %d", mirror.synced)
	}
	if mirror.syncToken != "live-token" {
		t.Fatalf("sync token: got %q", mirror.syncToken)
	}
	if users.savedToken != nil {
		t.Fatal("no refresh expected for a live token")
	}
}

func TestServiceCreate_RefreshesExpiredTokenAndPersistsIt(t *testing.T) {
	fresh := &domain.GoogleTokens{
		AccessToken:  "new-token",
		RefreshToken: "refresh",
		ExpiryDate:   time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
	mirror := &fakeMirror{refreshed: fresh}
	users := &fakeUserRepo{user: &domain.User{
		ID: "user-1",
		GoogleTokens: &domain.GoogleTokens{
			AccessToken:  "stale-token",
			RefreshToken: "refresh",
			ExpiryDate:   time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
	svc := newTestService(t, &fakeGenerator{response: samplePlanJSON}, &fakeRoadmapRepo{}, users, mirror)

	if _, err := svc.Create(context.Background(), CreateRequest{UserID: "user-1", Prompt: "p"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mirror.syncToken != "new-token" {
		t.Fatalf("sync token: got %q", mirror.syncToken)
	}
	if users.savedToken != fresh {
		t.Fatal("refreshed tokens must be persisted")
	}
}

func TestServiceCreate_MirrorFailuresDoNotFailCreate(t *testing.T) {
	mirror := &fakeMirror{results: []calendar.EventResult{
		{Phase: "Foundations", DayNo: 1, Err: errors.New("insert failed")},
		{Phase: "Foundations", DayNo: 2},
	}}
	users := &fakeUserRepo{user: &domain.User{
		ID: "user-1",
		GoogleTokens: &domain.GoogleTokens{
			AccessToken:  "token",
			RefreshToken: "refresh",
			ExpiryDate:   time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
	svc := newTestService(t, &fakeGenerator{response: samplePlanJSON}, &fakeRoadmapRepo{}, users, mirror)

	roadmap, err := svc.Create(context.Background(), CreateRequest{UserID: "user-1", Prompt: "p"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if roadmap == nil {
		t.Fatal("expected persisted roadmap despite mirror failures")
	}
}

func TestServiceCreate_LocaleSteersPrompt(t *testing.T) {
	gen := &fakeGenerator{response: samplePlanJSON}
	svc := newTestService(t, gen, &fakeRoadmapRepo{}, &fakeUserRepo{}, nil)

	_, err := svc.Create(context.Background(), CreateRequest{
		UserID: "user-1",
		Title:  "Belajar Go",
		Prompt: "learn go in 6 days",
		Locale: "id",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gen.prompts) != 1 {
		t.Fatalf("prompts: got %d", len(gen.prompts))
	}
	prompt := gen.prompts[0]
	if !strings.HasPrefix(prompt, "learn go in 6 days") {
		t.Fatalf("goal text must lead the prompt, got %q", prompt)
	}
	if !strings.Contains(prompt, "in Indonesian") {
		t.Fatalf("missing language directive, got %q", prompt)
	}
}

func TestServiceCreate_EnglishAndUnknownLocalesLeavePromptAlone(t *testing.T) {
	for _, locale := range []string{"", "en", "EN", "xx-bogus"} {
		gen := &fakeGenerator{response: samplePlanJSON}
		svc := newTestService(t, gen, &fakeRoadmapRepo{}, &fakeUserRepo{}, nil)

		_, err := svc.Create(context.Background(), CreateRequest{
			UserID: "user-1",
			Title:  "Learn Go",
			Prompt: "learn go in 6 days",
			Locale: locale,
		})
		if err != nil {
			t.Fatalf("locale %q: unexpected error: %v", locale, err)
		}
		if got := gen.prompts[0]; got != "learn go in 6 days" {
			t.Fatalf("locale %q: prompt changed to %q", locale, got)
		}
	}
}
