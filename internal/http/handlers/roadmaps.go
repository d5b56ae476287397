package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/planfor/planner-api/internal/domain"
	"github.com/planfor/planner-api/internal/middleware"
	"github.com/planfor/planner-api/internal/planner"
	"github.com/planfor/planner-api/pkg/zip"
)

type createRoadmapRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
}

// RoadmapCreate runs the generation pipeline and returns the persisted
// aggregate. Generation and validation failures surface as one opaque
// upstream error; the raw model output only ever reaches the logs.
func (a *App) RoadmapCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req createRoadmapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt required")
		return
	}
	if req.Title == "" {
		req.Title = req.Prompt
	}

	roadmap, err := a.Planner.Create(r.Context(), planner.CreateRequest{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Prompt:      req.Prompt,
		Locale:      middleware.LocaleFromContext(r.Context()),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrGenerationService),
			errors.Is(err, domain.ErrMalformedOutput),
			errors.Is(err, domain.ErrSchemaValidation),
			errors.Is(err, domain.ErrDateConsistency):
			a.Logger.Error().Err(err).Str("user_id", userID).Msg("plan generation failed")
			a.error(w, http.StatusBadGateway, "generation_failed", "could not generate a valid plan, please try again")
		default:
			a.Logger.Error().Err(err).Str("user_id", userID).Msg("roadmap create failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to create roadmap")
		}
		return
	}

	a.Logger.Info().
		Str("user_id", userID).
		Str("roadmap_id", roadmap.ID).
		Str("country", middleware.CountryFromContext(r.Context())).
		Msg("roadmap created")
	a.json(w, http.StatusCreated, roadmap)
}

func (a *App) RoadmapList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	roadmaps, err := a.Roadmaps.ListByUser(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("list roadmaps failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list roadmaps")
		return
	}
	if roadmaps == nil {
		roadmaps = []domain.Roadmap{}
	}
	a.json(w, http.StatusOK, map[string]any{"roadmaps": roadmaps})
}

// loadOwnedRoadmap fetches the roadmap and enforces ownership. Non-owners get
// ErrNotFound so the route does not leak which ids exist.
func (a *App) loadOwnedRoadmap(r *http.Request) (*domain.Roadmap, error) {
	userID := a.currentUserID(r)
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	roadmap, err := a.Roadmaps.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	if roadmap.UserID != userID && !middleware.IsAdminFromContext(r.Context()) {
		return nil, domain.ErrNotFound
	}
	return roadmap, nil
}

func (a *App) RoadmapGet(w http.ResponseWriter, r *http.Request) {
	roadmap, err := a.loadOwnedRoadmap(r)
	if err != nil {
		a.roadmapError(w, err)
		return
	}
	a.json(w, http.StatusOK, roadmap)
}

func (a *App) RoadmapDelete(w http.ResponseWriter, r *http.Request) {
	roadmap, err := a.loadOwnedRoadmap(r)
	if err != nil {
		a.roadmapError(w, err)
		return
	}
	if err := a.Roadmaps.Delete(r.Context(), roadmap.ID); err != nil {
		a.roadmapError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"deleted": true})
}

// RoadmapExport streams the roadmap as a zip of per-phase markdown files.
func (a *App) RoadmapExport(w http.ResponseWriter, r *http.Request) {
	roadmap, err := a.loadOwnedRoadmap(r)
	if err != nil {
		a.roadmapError(w, err)
		return
	}

	files := make([]zip.File, 0, len(roadmap.Phases)+1)
	files = append(files, zip.File{Name: "roadmap.md", Data: []byte(roadmapOverviewMarkdown(roadmap))})
	for i, phase := range roadmap.Phases {
		name := fmt.Sprintf("%02d-%s.md", i+1, domain.Slugify(phase.Name))
		files = append(files, zip.File{Name: name, Data: []byte(phaseMarkdown(phase))})
	}

	archive, err := zip.Archive(files)
	if err != nil {
		a.Logger.Error().Err(err).Str("roadmap_id", roadmap.ID).Msg("export roadmap failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to build export")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", domain.Slugify(roadmap.Title)+".zip"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

func (a *App) roadmapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "roadmap not found")
	default:
		a.Logger.Error().Err(err).Msg("roadmap storage error")
		a.error(w, http.StatusInternalServerError, "internal", "storage error")
	}
}

func roadmapOverviewMarkdown(roadmap *domain.Roadmap) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", roadmap.Title)
	if roadmap.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", roadmap.Description)
	}
	fmt.Fprintf(&b, "Start: %s\n", roadmap.StartDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Days: %d\n", roadmap.NumberOfDays)
	fmt.Fprintf(&b, "Phases: %d\n", len(roadmap.Phases))
	return b.String()
}

func phaseMarkdown(phase domain.Phase) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", phase.Name)
	if phase.Objective != "" {
		fmt.Fprintf(&b, "%s\n\n", phase.Objective)
	}
	fmt.Fprintf(&b, "%s to %s (%d days)\n\n",
		phase.StartDate.Format("2006-01-02"),
		phase.EndDate.Format("2006-01-02"),
		phase.DurationDays,
	)
	for _, task := range phase.Tasks {
		marker := " "
		if task.IsReviewAssignment {
			marker = "R"
		}
		fmt.Fprintf(&b, "- [%s] Day %d (%s, %.1fh): %s\n",
			marker, task.DayNo, task.Date.Format("2006-01-02"), task.EstimatedHours, task.Description)
		for _, res := range task.Resources {
			fmt.Fprintf(&b, "  - %s\n", res)
		}
	}
	return b.String()
}
