package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/planfor/planner-api/internal/domain"
	"github.com/planfor/planner-api/internal/infra"
	"github.com/planfor/planner-api/internal/sqlinline"
)

// RoadmapRepositoryPG implements domain.RoadmapRepository on PostgreSQL.
// Phases and their tasks are serialized into a single jsonb column, so the
// aggregate write is one INSERT and can never be partial.
type RoadmapRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewRoadmapRepository creates a new RoadmapRepositoryPG.
func NewRoadmapRepository(sql infra.SQLExecutor) *RoadmapRepositoryPG {
	return &RoadmapRepositoryPG{sql: sql}
}

// Create writes the whole aggregate and returns the stored copy.
func (r *RoadmapRepositoryPG) Create(ctx context.Context, roadmap *domain.Roadmap) (*domain.Roadmap, error) {
	phases, err := json.Marshal(roadmap.Phases)
	if err != nil {
		return nil, fmt.Errorf("%w: encode phases: %v", domain.ErrStorage, err)
	}

	stored := *roadmap
	row := r.sql.QueryRow(ctx, sqlinline.QInsertRoadmap,
		roadmap.ID,
		roadmap.UserID,
		roadmap.Title,
		roadmap.Description,
		roadmap.StartDate,
		roadmap.NumberOfDays,
		phases,
	)
	if err := row.Scan(&stored.ID, &stored.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: insert roadmap: %v", domain.ErrStorage, err)
	}
	return &stored, nil
}

// GetByID fetches a roadmap aggregate by id.
func (r *RoadmapRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Roadmap, error) {
	return scanRoadmap(r.sql.QueryRow(ctx, sqlinline.QSelectRoadmapByID, id))
}

// ListByUser returns the user's roadmaps, newest first.
func (r *RoadmapRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.Roadmap, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListRoadmapsByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list roadmaps: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var roadmaps []domain.Roadmap
	for rows.Next() {
		roadmap, err := scanRoadmap(rows)
		if err != nil {
			return nil, err
		}
		roadmaps = append(roadmaps, *roadmap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list roadmaps: %v", domain.ErrStorage, err)
	}
	return roadmaps, nil
}

// Delete removes the aggregate. Missing rows surface as ErrNotFound.
func (r *RoadmapRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteRoadmap, id)
	if err != nil {
		return fmt.Errorf("%w: delete roadmap: %v", domain.ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanRoadmap(row pgx.Row) (*domain.Roadmap, error) {
	var roadmap domain.Roadmap
	var phases []byte
	if err := row.Scan(
		&roadmap.ID,
		&roadmap.UserID,
		&roadmap.Title,
		&roadmap.Description,
		&roadmap.StartDate,
		&roadmap.NumberOfDays,
		&phases,
		&roadmap.CreatedAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: scan roadmap: %v", domain.ErrStorage, err)
	}
	if len(phases) > 0 {
		if err := json.Unmarshal(phases, &roadmap.Phases); err != nil {
			return nil, fmt.Errorf("%w: decode phases: %v", domain.ErrStorage, err)
		}
	}
	return &roadmap, nil
}

var _ domain.RoadmapRepository = (*RoadmapRepositoryPG)(nil)
