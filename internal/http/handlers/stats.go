package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/planfor/planner-api/internal/sqlinline"
)

func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	row := a.SQL.QueryRow(r.Context(), sqlinline.QStatsSummary)
	var totalUsers, totalRoadmaps, totalBlogs, totalComments, roadmaps24 int64
	if err := row.Scan(&totalUsers, &totalRoadmaps, &totalBlogs, &totalComments, &roadmaps24); err != nil {
		a.Logger.Error().Err(err).Msg("load stats failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"total_users":       totalUsers,
		"total_roadmaps":    totalRoadmaps,
		"total_blogs":       totalBlogs,
		"total_comments":    totalComments,
		"roadmaps_last_24h": roadmaps24,
	})
}

func adminLimit(r *http.Request) int {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	return limit
}

func (a *App) AdminUsers(w http.ResponseWriter, r *http.Request) {
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListUsers, adminLimit(r))
	if err != nil {
		a.Logger.Error().Err(err).Msg("list users failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list users")
		return
	}
	defer rows.Close()

	users := []map[string]any{}
	for rows.Next() {
		var id, name, email string
		var isAdmin, calendarLinked bool
		var createdAt time.Time
		if err := rows.Scan(&id, &name, &email, &isAdmin, &calendarLinked, &createdAt); err != nil {
			a.Logger.Error().Err(err).Msg("scan user failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to list users")
			return
		}
		users = append(users, map[string]any{
			"id":              id,
			"name":            name,
			"email":           email,
			"is_admin":        isAdmin,
			"calendar_linked": calendarLinked,
			"created_at":      createdAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"users": users})
}

func (a *App) AdminRoadmaps(w http.ResponseWriter, r *http.Request) {
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListAllRoadmaps, adminLimit(r))
	if err != nil {
		a.Logger.Error().Err(err).Msg("list all roadmaps failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list roadmaps")
		return
	}
	defer rows.Close()

	roadmaps := []map[string]any{}
	for rows.Next() {
		var id, userID, email, title string
		var startDate, createdAt time.Time
		var days int
		if err := rows.Scan(&id, &userID, &email, &title, &startDate, &days, &createdAt); err != nil {
			a.Logger.Error().Err(err).Msg("scan roadmap row failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to list roadmaps")
			return
		}
		roadmaps = append(roadmaps, map[string]any{
			"id":             id,
			"user_id":        userID,
			"user_email":     email,
			"title":          title,
			"start_date":     startDate,
			"number_of_days": days,
			"created_at":     createdAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"roadmaps": roadmaps})
}
