package domain

import "time"

// DayTask is one daily unit of work inside a phase. DayNo is assigned by list
// position when the plan is reconciled; values suggested by the generation
// source are never trusted.
type DayTask struct {
	DayNo              int       `json:"dayNo"`
	Date               time.Time `json:"dateOfDayNo"`
	Description        string    `json:"task_description"`
	IsReviewAssignment bool      `json:"is_review_assignment"`
	EstimatedHours     float64   `json:"estimated_hours"`
	Resources          []string  `json:"resources_needed"`
}

// Phase is an ordered child of a roadmap. Phases are contiguous: each phase
// starts the day after the previous one ends.
type Phase struct {
	Name         string    `json:"phase"`
	Objective    string    `json:"objective"`
	DurationDays int       `json:"durationInDays"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	Summary      string    `json:"task"`
	Tasks        []DayTask `json:"tasks"`
}

// Span returns the inclusive number of days covered by the phase dates.
func (p Phase) Span() int {
	return int(p.EndDate.Sub(p.StartDate).Hours()/24) + 1
}

// Roadmap is the root aggregate. It is created atomically once per successful
// generation and is immutable afterwards except for deletion.
type Roadmap struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	StartDate    time.Time `json:"startDate"`
	NumberOfDays int       `json:"numberOfDays"`
	Phases       []Phase   `json:"phases"`
	CreatedAt    time.Time `json:"created_at"`
}

// EndDate returns the last phase's end date, or the start date when the
// roadmap has no phases.
func (r Roadmap) EndDate() time.Time {
	if len(r.Phases) == 0 {
		return r.StartDate
	}
	return r.Phases[len(r.Phases)-1].EndDate
}
