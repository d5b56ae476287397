package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/planfor/planner-api/internal/domain"
	"github.com/planfor/planner-api/internal/middleware"
)

const (
	tokenIssuer   = "planner-api"
	tokenAudience = "planner-clients"
	tokenTTL      = 24 * time.Hour
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string         `json:"token"`
	User  userProfileDTO `json:"user"`
}

type userProfileDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	IsAdmin        bool   `json:"is_admin"`
	CalendarLinked bool   `json:"calendar_linked"`
}

func profileDTO(user *domain.User) userProfileDTO {
	return userProfileDTO{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		IsAdmin:        user.IsAdmin,
		CalendarLinked: user.HasCalendarLinked(),
	}
}

func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" || len(req.Password) < 8 {
		a.error(w, http.StatusBadRequest, "bad_request", "name, email and a password of at least 8 characters are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.Logger.Error().Err(err).Msg("hash password failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create account")
		return
	}

	user, err := a.Users.Create(r.Context(), &domain.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			a.error(w, http.StatusConflict, "conflict", "email already registered")
			return
		}
		a.Logger.Error().Err(err).Msg("create user failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create account")
		return
	}

	a.issueToken(w, r, http.StatusCreated, user)
}

func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	user, err := a.Users.GetByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			a.Logger.Error().Err(err).Msg("load user failed")
		}
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		return
	}

	a.issueToken(w, r, http.StatusOK, user)
}

func (a *App) issueToken(w http.ResponseWriter, r *http.Request, code int, user *domain.User) {
	token, err := middleware.SignJWT(a.JWTSecret, middleware.TokenClaims{
		Sub:      user.ID,
		Name:     user.Name,
		Admin:    user.IsAdmin,
		Locale:   middleware.LocaleFromContext(r.Context()),
		Exp:      time.Now().Add(tokenTTL).Unix(),
		Issuer:   tokenIssuer,
		Audience: tokenAudience,
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign jwt failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}
	a.json(w, code, authResponse{Token: token, User: profileDTO(user)})
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	user, err := a.Users.GetByID(r.Context(), userID)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	a.json(w, http.StatusOK, profileDTO(user))
}

type googleLinkRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri"`
}

// GoogleLink exchanges an OAuth authorization code and stores the resulting
// token bundle, enabling calendar mirroring for subsequent roadmaps.
func (a *App) GoogleLink(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if a.CalendarAuth == nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "calendar integration is not configured")
		return
	}
	var req googleLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "code required")
		return
	}

	tokens, err := a.CalendarAuth.ExchangeCode(r.Context(), req.Code, req.RedirectURI)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("google code exchange failed")
		a.error(w, http.StatusBadGateway, "exchange_failed", "could not exchange authorization code")
		return
	}
	if err := a.Users.SaveGoogleTokens(r.Context(), userID, tokens); err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("save google tokens failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store tokens")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"linked": true})
}

// GoogleUnlink clears the stored calendar credentials.
func (a *App) GoogleUnlink(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if err := a.Users.SaveGoogleTokens(r.Context(), userID, nil); err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("unlink google failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to unlink")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"linked": false})
}

func (a *App) GoogleStatus(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	user, err := a.Users.GetByID(r.Context(), userID)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"linked": user.HasCalendarLinked()})
}
