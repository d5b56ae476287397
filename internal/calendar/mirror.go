package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/planfor/planner-api/internal/domain"
	"github.com/planfor/planner-api/internal/infra"
)

// EventResult records the outcome of mirroring one day task.
type EventResult struct {
	Phase string
	DayNo int
	Err   error
}

// Mirror projects a persisted roadmap into calendar events, one per day task.
// Inserts run under a bounded group; a failed insert never aborts its
// siblings and never propagates past the result list.
type Mirror struct {
	client   *Client
	location *time.Location
	timeZone string
	limit    int
	logger   infra.Logger
}

func NewMirror(client *Client, timeZone string, limit int, logger infra.Logger) *Mirror {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		logger.Warn().Str("time_zone", timeZone).Msg("calendar: unknown time zone, using UTC")
		loc = time.UTC
		timeZone = "UTC"
	}
	if limit <= 0 {
		limit = 1
	}
	return &Mirror{client: client, location: loc, timeZone: timeZone, limit: limit, logger: logger}
}

// Refresh exchanges an expired bundle for a fresh one.
func (m *Mirror) Refresh(ctx context.Context, tokens domain.GoogleTokens) (*domain.GoogleTokens, error) {
	return m.client.RefreshTokens(ctx, tokens)
}

// Sync inserts one event per task and returns per-task results in roadmap
// order. The context is shared but never cancelled by individual failures.
func (m *Mirror) Sync(ctx context.Context, roadmap *domain.Roadmap, accessToken string) []EventResult {
	type job struct {
		phase string
		task  domain.DayTask
	}
	var jobs []job
	for _, phase := range roadmap.Phases {
		for _, task := range phase.Tasks {
			jobs = append(jobs, job{phase: phase.Name, task: task})
		}
	}

	results := make([]EventResult, len(jobs))
	g := &errgroup.Group{}
	g.SetLimit(m.limit)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			start := time.Date(j.task.Date.Year(), j.task.Date.Month(), j.task.Date.Day(), 0, 0, 0, 0, m.location)
			end := start.Add(time.Duration(j.task.EstimatedHours * float64(time.Hour)))
			err := m.client.InsertEvent(ctx, accessToken, Event{
				Summary:     fmt.Sprintf("%s (Day %d)", roadmap.Title, j.task.DayNo),
				Description: j.task.Description,
				Start:       start,
				End:         end,
				TimeZone:    m.timeZone,
			})
			results[i] = EventResult{Phase: j.phase, DayNo: j.task.DayNo, Err: err}
			if err != nil {
				m.logger.Warn().Err(err).
					Str("roadmap_id", roadmap.ID).
					Str("phase", j.phase).
					Int("day_no", j.task.DayNo).
					Msg("calendar: event insert failed")
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
