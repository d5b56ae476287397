package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/planfor/planner-api/internal/domain"
	"github.com/planfor/planner-api/internal/sqlinline"
)

const defaultBlogLimit = 50

func (a *App) BlogList(w http.ResponseWriter, r *http.Request) {
	limit := defaultBlogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	rows, err := a.SQL.Query(r.Context(), sqlinline.QListBlogs, limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list blogs failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list blogs")
		return
	}
	defer rows.Close()

	blogs := []domain.Blog{}
	for rows.Next() {
		var blog domain.Blog
		if err := rows.Scan(&blog.ID, &blog.Slug, &blog.Title, &blog.Content, &blog.Tags,
			&blog.AuthorID, &blog.Likes, &blog.CreatedAt, &blog.UpdatedAt); err != nil {
			a.Logger.Error().Err(err).Msg("scan blog failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to list blogs")
			return
		}
		blogs = append(blogs, blog)
	}
	a.json(w, http.StatusOK, map[string]any{"blogs": blogs})
}

func (a *App) BlogGet(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectBlogBySlug, slug)
	var blog domain.Blog
	if err := row.Scan(&blog.ID, &blog.Slug, &blog.Title, &blog.Content, &blog.Tags,
		&blog.AuthorID, &blog.Likes, &blog.CreatedAt, &blog.UpdatedAt); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "blog not found")
		return
	}
	a.json(w, http.StatusOK, blog)
}

type blogWriteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

func (a *App) BlogCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	var req blogWriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Content) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "title and content required")
		return
	}

	slug := domain.Slugify(req.Title)
	tags := domain.NormalizeTags(req.Tags)
	if tags == nil {
		tags = []string{}
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertBlog,
		uuid.NewString(), slug, req.Title, req.Content, tags, userID)
	var blog domain.Blog
	if err := row.Scan(&blog.ID, &blog.Slug, &blog.CreatedAt); err != nil {
		a.Logger.Error().Err(err).Str("slug", slug).Msg("insert blog failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create blog")
		return
	}
	blog.Title = req.Title
	blog.Content = req.Content
	blog.Tags = tags
	blog.AuthorID = userID
	a.json(w, http.StatusCreated, blog)
}

func (a *App) BlogUpdate(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	var req blogWriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "title and content required")
		return
	}
	tags := domain.NormalizeTags(req.Tags)
	if tags == nil {
		tags = []string{}
	}

	row := a.SQL.QueryRow(r.Context(), sqlinline.QUpdateBlog, slug, req.Title, req.Content, tags)
	var id string
	if err := row.Scan(&id); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "blog not found")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"id": id, "slug": slug})
}

func (a *App) BlogDelete(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	tag, err := a.SQL.Exec(r.Context(), sqlinline.QDeleteBlog, slug)
	if err != nil {
		a.Logger.Error().Err(err).Str("slug", slug).Msg("delete blog failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete blog")
		return
	}
	if tag.RowsAffected() == 0 {
		a.error(w, http.StatusNotFound, "not_found", "blog not found")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"deleted": true})
}

type commentRequest struct {
	Content string `json:"content"`
}

func (a *App) BlogComments(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListComments, slug)
	if err != nil {
		a.Logger.Error().Err(err).Str("slug", slug).Msg("list comments failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list comments")
		return
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.BlogID, &c.UserID, &c.AuthorName, &c.Content, &c.CreatedAt); err != nil {
			a.Logger.Error().Err(err).Msg("scan comment failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to list comments")
			return
		}
		comments = append(comments, c)
	}
	a.json(w, http.StatusOK, map[string]any{"comments": comments})
}

func (a *App) BlogCommentCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	slug := chi.URLParam(r, "slug")
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "content required")
		return
	}

	user, err := a.Users.GetByID(r.Context(), userID)
	if err != nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "unknown user")
		return
	}

	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectBlogBySlug, slug)
	var blog domain.Blog
	if err := row.Scan(&blog.ID, &blog.Slug, &blog.Title, &blog.Content, &blog.Tags,
		&blog.AuthorID, &blog.Likes, &blog.CreatedAt, &blog.UpdatedAt); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "blog not found")
		return
	}

	comment := domain.Comment{
		ID:         uuid.NewString(),
		BlogID:     blog.ID,
		UserID:     userID,
		AuthorName: user.Name,
		Content:    req.Content,
	}
	insert := a.SQL.QueryRow(r.Context(), sqlinline.QInsertComment,
		comment.ID, comment.BlogID, comment.UserID, comment.AuthorName, comment.Content)
	if err := insert.Scan(&comment.ID, &comment.CreatedAt); err != nil {
		a.Logger.Error().Err(err).Str("slug", slug).Msg("insert comment failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to add comment")
		return
	}
	a.json(w, http.StatusCreated, comment)
}

// BlogLikeToggle likes the post for the caller, or removes the like when one
// already exists. The denormalized counter on blogs is refreshed afterwards.
func (a *App) BlogLikeToggle(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	slug := chi.URLParam(r, "slug")

	inserted, err := a.SQL.Exec(r.Context(), sqlinline.QInsertLike, slug, userID)
	if err != nil {
		a.Logger.Error().Err(err).Str("slug", slug).Msg("insert like failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to toggle like")
		return
	}
	liked := inserted.RowsAffected() > 0
	if !liked {
		if _, err := a.SQL.Exec(r.Context(), sqlinline.QDeleteLike, slug, userID); err != nil {
			a.Logger.Error().Err(err).Str("slug", slug).Msg("delete like failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to toggle like")
			return
		}
	}

	var likes int
	if err := a.SQL.QueryRow(r.Context(), sqlinline.QRefreshBlogLikes, slug).Scan(&likes); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "blog not found")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"liked": liked, "likes": likes})
}
