package domain

import "context"

// RoadmapRepository persists roadmap aggregates. Create must write the whole
// aggregate (roadmap, phases, tasks) atomically or not at all.
type RoadmapRepository interface {
	Create(ctx context.Context, roadmap *Roadmap) (*Roadmap, error)
	GetByID(ctx context.Context, id string) (*Roadmap, error)
	ListByUser(ctx context.Context, userID string) ([]Roadmap, error)
	Delete(ctx context.Context, id string) error
}

// UserRepository defines access methods for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	SaveGoogleTokens(ctx context.Context, userID string, tokens *GoogleTokens) error
}
