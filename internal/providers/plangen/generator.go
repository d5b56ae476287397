package plangen

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Generator produces the raw text of a structured plan for a free-text goal.
// Implementations make exactly one attempt; retries are a caller concern.
type Generator interface {
	GeneratePlan(ctx context.Context, prompt string, today time.Time) (string, error)
}

// systemInstruction fixes the planner role and the exact JSON schema the
// model must emit. Sampling is pinned to deterministic settings by both
// providers because the downstream parser expects this shape verbatim.
func systemInstruction() string {
	sb := &strings.Builder{}
	sb.WriteString("You are an intelligent task planner. Your job is to break down a given goal ")
	sb.WriteString("into multiple smaller phases and daily tasks based on a provided start date ")
	sb.WriteString("and a time constraint (number of days available to complete the task).\n\n")
	sb.WriteString("Input:\nA main goal description\nStart date (YYYY-MM-DD)\nA total duration (number of days) for the entire roadmap\n\n")
	sb.WriteString("Output Format:\nGenerate your output as a single valid JSON object following this schema:\n")
	sb.WriteString(`{"Start Date": "YYYY-MM-DD", "Number of Days": X, "Phases": [{"Phase": "Phase Name", "objective": "What this phase achieves", "Duration (Days)": X, "Start Date": "YYYY-MM-DD", "End Date": "YYYY-MM-DD", "Task": "Summary of the work in this phase", "tasks": [{"Day No": X, "Date of Day No": "YYYY-MM-DD", "task_description": "Detailed description of what to do on this day", "is_review_assignment": false, "estimated_hours": 2, "resources_needed": ["Resource 1", "Resource 2"]}]}]}`)
	sb.WriteString("\nGenerate the response in valid JSON format only.")
	return sb.String()
}

// buildUserPrompt prefixes the caller-supplied goal with the reference date so
// the model anchors the plan without guessing what "now" means.
func buildUserPrompt(prompt string, today time.Time) string {
	return fmt.Sprintf("Current date: %s.\n\n%s", today.Format("2006-01-02"), strings.TrimSpace(prompt))
}
