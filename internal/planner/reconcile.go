package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/planfor/planner-api/internal/domain"
)

const dateLayout = "2006-01-02"

// Field defaults applied by the reconciler. All defaulting happens here and
// nowhere else.
const (
	defaultEstimatedHours = 2.0
)

// Reconcile validates the candidate against the expected shape and rebuilds
// every temporal field from first principles: phase boundaries are recomputed
// from the plan start date and the declared durations, and day tasks are
// renumbered by position. Candidate dates on phases and tasks are treated as
// informational only; computed values win when they conflict.
func Reconcile(candidate *Candidate) (*domain.Roadmap, error) {
	if candidate == nil {
		return nil, fmt.Errorf("%w: missing candidate", domain.ErrSchemaValidation)
	}
	start, err := time.ParseInLocation(dateLayout, strings.TrimSpace(candidate.StartDate), time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date %q", domain.ErrSchemaValidation, candidate.StartDate)
	}
	if candidate.NumberOfDays <= 0 {
		return nil, fmt.Errorf("%w: number of days must be positive, got %d", domain.ErrSchemaValidation, candidate.NumberOfDays)
	}
	if len(candidate.Phases) == 0 {
		return nil, fmt.Errorf("%w: plan has no phases", domain.ErrSchemaValidation)
	}

	totalDuration := 0
	for i, phase := range candidate.Phases {
		if strings.TrimSpace(phase.Name) == "" {
			return nil, fmt.Errorf("%w: phase %d has no name", domain.ErrSchemaValidation, i)
		}
		if phase.DurationDays <= 0 {
			return nil, fmt.Errorf("%w: phase %q has non-positive duration", domain.ErrSchemaValidation, phase.Name)
		}
		if strings.TrimSpace(phase.StartDate) == "" || strings.TrimSpace(phase.EndDate) == "" {
			return nil, fmt.Errorf("%w: phase %q is missing date fields", domain.ErrSchemaValidation, phase.Name)
		}
		for j, task := range phase.Tasks {
			if strings.TrimSpace(task.Description) == "" {
				return nil, fmt.Errorf("%w: phase %q task %d has no description", domain.ErrSchemaValidation, phase.Name, j)
			}
		}
		totalDuration += phase.DurationDays
	}

	// Reject rather than silently truncate or pad: a mismatch means the
	// generation went wrong, and hiding it would mask upstream bugs.
	if totalDuration != candidate.NumberOfDays {
		return nil, fmt.Errorf("%w: phase durations sum to %d, declared total is %d",
			domain.ErrDateConsistency, totalDuration, candidate.NumberOfDays)
	}

	phases := make([]domain.Phase, 0, len(candidate.Phases))
	cursor := start
	for _, raw := range candidate.Phases {
		phase := domain.Phase{
			Name:         strings.TrimSpace(raw.Name),
			Objective:    strings.TrimSpace(raw.Objective),
			DurationDays: raw.DurationDays,
			StartDate:    cursor,
			EndDate:      cursor.AddDate(0, 0, raw.DurationDays-1),
			Summary:      strings.TrimSpace(raw.Summary),
			Tasks:        reconcileTasks(raw.Tasks, cursor),
		}
		phases = append(phases, phase)
		cursor = phase.EndDate.AddDate(0, 0, 1)
	}

	return &domain.Roadmap{
		StartDate:    start,
		NumberOfDays: candidate.NumberOfDays,
		Phases:       phases,
	}, nil
}

func reconcileTasks(raw []CandidateTask, phaseStart time.Time) []domain.DayTask {
	tasks := make([]domain.DayTask, 0, len(raw))
	for i, task := range raw {
		hours := defaultEstimatedHours
		if task.EstimatedHours.valid && task.EstimatedHours.value >= 0 {
			hours = task.EstimatedHours.value
		}
		resources := task.Resources
		if resources == nil {
			resources = []string{}
		}
		tasks = append(tasks, domain.DayTask{
			DayNo:              i + 1,
			Date:               phaseStart.AddDate(0, 0, i),
			Description:        strings.TrimSpace(task.Description),
			IsReviewAssignment: task.IsReview,
			EstimatedHours:     hours,
			Resources:          resources,
		})
	}
	return tasks
}
