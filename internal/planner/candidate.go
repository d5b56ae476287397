package planner

import "encoding/json"

// Candidate mirrors the JSON shape the generation service is instructed to
// emit. Field names are the model's, not ours; the reconciler translates the
// candidate into the domain aggregate and recomputes everything temporal.
// "Day No" and "Date of Day No" are deliberately unmapped: the persisted
// ordering is positional and the model's numbering is informational only.
type Candidate struct {
	StartDate    string           `json:"Start Date"`
	NumberOfDays int              `json:"Number of Days"`
	Phases       []CandidatePhase `json:"Phases"`
}

type CandidatePhase struct {
	Name         string          `json:"Phase"`
	Objective    string          `json:"objective"`
	DurationDays int             `json:"Duration (Days)"`
	StartDate    string          `json:"Start Date"`
	EndDate      string          `json:"End Date"`
	Summary      string          `json:"Task"`
	Tasks        []CandidateTask `json:"tasks"`
}

type CandidateTask struct {
	Description    string     `json:"task_description"`
	IsReview       bool       `json:"is_review_assignment"`
	EstimatedHours hoursValue `json:"estimated_hours"`
	Resources      []string   `json:"resources_needed"`
}

// hoursValue tolerates whatever the model put in estimated_hours. Anything
// non-numeric is recorded as unset so the reconciler can apply the default
// instead of failing the whole plan over one sloppy field.
type hoursValue struct {
	value float64
	valid bool
}

func (h *hoursValue) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return nil
	}
	h.value = f
	h.valid = true
	return nil
}

func (h hoursValue) MarshalJSON() ([]byte, error) {
	if !h.valid {
		return []byte("null"), nil
	}
	return json.Marshal(h.value)
}
