package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/planfor/planner-api/internal/domain"
	"github.com/planfor/planner-api/internal/infra"
	"github.com/planfor/planner-api/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserRepository on PostgreSQL.
type UserRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(sql infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{sql: sql}
}

// Create inserts a new account. A duplicate email maps to ErrDuplicate.
func (r *UserRepositoryPG) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	stored := *user
	row := r.sql.QueryRow(ctx, sqlinline.QInsertUser,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
	)
	if err := row.Scan(&stored.ID, &stored.Name, &stored.Email, &stored.IsAdmin, &stored.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("%w: insert user: %v", domain.ErrStorage, err)
	}
	return &stored, nil
}

// GetByID fetches a user by id.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QSelectUserByID, id))
}

// GetByEmail fetches a user by email, case-insensitively.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QSelectUserByEmail, email))
}

// SaveGoogleTokens stores the user's calendar credentials. A nil bundle
// unlinks the calendar.
func (r *UserRepositoryPG) SaveGoogleTokens(ctx context.Context, userID string, tokens *domain.GoogleTokens) error {
	var payload any
	if tokens != nil {
		encoded, err := json.Marshal(tokens)
		if err != nil {
			return fmt.Errorf("%w: encode tokens: %v", domain.ErrStorage, err)
		}
		payload = encoded
	}
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateGoogleTokens, userID, payload)
	if err != nil {
		return fmt.Errorf("%w: save tokens: %v", domain.ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var tokens []byte
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.IsAdmin,
		&tokens,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: scan user: %v", domain.ErrStorage, err)
	}
	if len(tokens) > 0 {
		var bundle domain.GoogleTokens
		if err := json.Unmarshal(tokens, &bundle); err != nil {
			return nil, fmt.Errorf("%w: decode tokens: %v", domain.ErrStorage, err)
		}
		user.GoogleTokens = &bundle
	}
	return &user, nil
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
