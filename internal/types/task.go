package types

import "strings"

// DoDItem is one entry of a task's definition of done. Item weights across a
// task are expected to sum to 100 (within +/-5).
type DoDItem struct {
	Text      string `json:"text"`
	Weight    int    `json:"weight"`
	Completed bool   `json:"completed"`
}

// Task is the candidate record threaded through the whole pipeline: created by
// exactly one generator, then enriched, verified, deduplicated, scored,
// scheduled, and finally persisted or discarded.
type Task struct {
	Title            string          `json:"title"`
	Description      string          `json:"description,omitempty"`
	TaskType         TaskType        `json:"task_type"`
	TimeboxMinutes   int             `json:"timebox_minutes"`
	Priority         int             `json:"priority"`
	DeliverableType  DeliverableType `json:"deliverable_type"`
	DefinitionOfDone []DoDItem       `json:"definition_of_done"`
	Constraints      map[string]any  `json:"constraints,omitempty"`
	ScheduledDate    string          `json:"scheduled_date,omitempty"`
	Source           TaskSource      `json:"source"`

	MilestoneTitle string `json:"milestone_title,omitempty"`
	MilestoneIndex int    `json:"milestone_index,omitempty"`

	SpecificResource string `json:"specific_resource,omitempty"`
	TaskCategory     string `json:"task_category,omitempty"`

	PersonalizationScore int  `json:"personalization_score,omitempty"`
	ValidationScore      int  `json:"validation_score,omitempty"`
	Enriched             bool `json:"enriched,omitempty"`
}

// DoDWeightSum reports the total DoD weight for the 100+/-5 invariant.
func (t *Task) DoDWeightSum() int {
	sum := 0
	for _, item := range t.DefinitionOfDone {
		sum += item.Weight
	}
	return sum
}

// SearchText is the lowercase title+description used by keyword matchers.
func (t *Task) SearchText() string {
	return strings.ToLower(strings.TrimSpace(t.Title + " " + t.Description))
}

// Milestone is transient: it only exists between the tier-1 milestone call and
// the tier-2 expansion calls, then survives as grouping metadata on tasks.
type Milestone struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	DurationWeeks   int      `json:"duration_weeks"`
	SuccessCriteria []string `json:"success_criteria"`
}

// CoverageResult is the advisory output of the scenario coverage detector.
type CoverageResult struct {
	Score    int          `json:"score"`
	Tier     CoverageTier `json:"tier"`
	Strategy Strategy     `json:"strategy"`

	Background string `json:"background"`
	Field      string `json:"field"`
}
