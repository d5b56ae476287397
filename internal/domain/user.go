package domain

import "time"

// GoogleTokens is the external-calendar credential bundle linked to a user.
type GoogleTokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiryDate   time.Time `json:"expiry_date"`
}

// Expired reports whether the access token needs refreshing before use.
func (t GoogleTokens) Expired(now time.Time) bool {
	return !now.Before(t.ExpiryDate)
}

// User represents an account within the platform. PasswordHash is empty for
// accounts created through OAuth only.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
	GoogleTokens *GoogleTokens
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasCalendarLinked reports whether calendar mirroring can be attempted.
func (u User) HasCalendarLinked() bool {
	return u.GoogleTokens != nil && u.GoogleTokens.RefreshToken != ""
}
