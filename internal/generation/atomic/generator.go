package atomic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/platform/openai"
	"github.com/pathforge/taskpipe-backend/internal/profile"
	"github.com/pathforge/taskpipe-backend/internal/quality"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

const (
	milestonesRequested   = 5
	milestonesMinValid    = 3
	tasksPerMilestoneMin  = 5
	tasksPerMilestoneMax  = 6
	atomicTimeboxMin      = 10
	atomicTimeboxMax      = 90
	milestoneMinDuration  = 1
	milestoneMaxDuration  = 8
)

// Generator is the two-tier path: one call expands the goal into ~5
// milestones, then one call per surviving milestone expands it into 5-6
// atomic tasks. No retries inside this component; the verifier downstream is
// the second line of defense.
type Generator struct {
	log *logger.Logger
	llm openai.Client
}

func NewGenerator(llm openai.Client, log *logger.Logger) *Generator {
	return &Generator{
		log: log.With("service", "AtomicTaskGenerator"),
		llm: llm,
	}
}

// Generate runs both tiers and returns the collected tasks plus the terminal
// state. Tier 1 fails closed when fewer than 3 of 5 milestones parse; a
// single bad tier-2 call only loses that milestone's tasks.
func (g *Generator) Generate(ctx context.Context, pctx *profile.Context, goal *types.Goal, stories types.UserStories) ([]types.Task, State) {
	state := StateStart
	advance := func(next State) {
		g.log.Debug("state transition", "from", state.String(), "to", next.String())
		state = next
	}

	advance(StateMilestonesRequested)
	milestones, err := g.requestMilestones(ctx, pctx, goal, stories)
	if err != nil {
		g.log.Warn("milestone tier failed", "error", err)
		advance(StateFailed)
		return nil, state
	}
	if len(milestones) < milestonesMinValid {
		g.log.Warn("too few valid milestones, failing closed",
			"valid", len(milestones), "min", milestonesMinValid)
		advance(StateFailed)
		return nil, state
	}
	advance(StateMilestonesReceived)

	advance(StatePerMilestoneExpansion)
	var out []types.Task
	for idx, m := range milestones {
		tasks, err := g.expandMilestone(ctx, pctx, m, stories)
		if err != nil {
			g.log.Warn("milestone expansion failed, continuing",
				"milestone", m.Title, "error", err)
			continue
		}
		for _, task := range tasks {
			task.MilestoneTitle = m.Title
			task.MilestoneIndex = idx
			out = append(out, task)
		}
	}
	advance(StateAtomicTasksCollected)

	if len(out) == 0 {
		advance(StateFailed)
		return nil, state
	}
	advance(StateDone)
	g.log.Info("two-tier generation complete",
		"milestones", len(milestones), "tasks", len(out))
	return out, state
}

var milestoneSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"milestones": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":            map[string]any{"type": "string"},
					"description":      map[string]any{"type": "string"},
					"duration_weeks":   map[string]any{"type": "integer"},
					"success_criteria": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
				"required":             []string{"title", "description", "duration_weeks", "success_criteria"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"milestones"},
	"additionalProperties": false,
}

func (g *Generator) requestMilestones(ctx context.Context, pctx *profile.Context, goal *types.Goal, stories types.UserStories) ([]types.Milestone, error) {
	if g.llm == nil {
		return nil, fmt.Errorf("no llm client configured")
	}

	system := fmt.Sprintf("You break a goal into exactly %d sequential milestones, each 1-8 weeks, with measurable success criteria.", milestonesRequested)
	user := fmt.Sprintf(
		"Goal: %s\nCategory: %s\nField: %s\nBackground: %s\nWork story: %s\nAspiration: %s",
		goal.Title, string(goal.Category), pctx.Field, pctx.Background,
		stories.Work, stories.Aspiration,
	)

	obj, err := g.llm.GenerateJSON(ctx, system, user, "goal_milestones", milestoneSchema)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(obj["milestones"])
	if err != nil {
		return nil, err
	}
	var parsed []types.Milestone
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("milestones payload has wrong shape: %w", err)
	}

	valid := parsed[:0:0]
	for _, m := range parsed {
		if strings.TrimSpace(m.Title) == "" || strings.TrimSpace(m.Description) == "" {
			g.log.Debug("dropping milestone with missing fields", "title", m.Title)
			continue
		}
		if m.DurationWeeks < milestoneMinDuration || m.DurationWeeks > milestoneMaxDuration {
			g.log.Debug("dropping milestone with out-of-range duration",
				"title", m.Title, "duration_weeks", m.DurationWeeks)
			continue
		}
		valid = append(valid, m)
	}
	return valid, nil
}

var atomicTaskSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"tasks": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":             map[string]any{"type": "string"},
					"description":       map[string]any{"type": "string"},
					"task_type":         map[string]any{"type": "string"},
					"timebox_minutes":   map[string]any{"type": "integer"},
					"priority":          map[string]any{"type": "integer"},
					"deliverable_type":  map[string]any{"type": "string"},
					"specific_resource": map[string]any{"type": "string"},
				},
				"required": []string{
					"title", "description", "task_type", "timebox_minutes",
					"priority", "deliverable_type", "specific_resource",
				},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"tasks"},
	"additionalProperties": false,
}

func (g *Generator) expandMilestone(ctx context.Context, pctx *profile.Context, m types.Milestone, stories types.UserStories) ([]types.Task, error) {
	system := fmt.Sprintf(
		"You expand one milestone into %d-%d atomic tasks. Atomic means one action, 15-60 minutes, one deliverable, one named resource. Never emit planning language like 'develop a plan' or 'research and'.",
		tasksPerMilestoneMin, tasksPerMilestoneMax,
	)
	user := fmt.Sprintf(
		"Milestone: %s\n%s\nSuccess criteria: %s\nUser field: %s\nAchievement story: %s",
		m.Title, m.Description, strings.Join(m.SuccessCriteria, "; "),
		pctx.Field, stories.Achievement,
	)

	obj, err := g.llm.GenerateJSON(ctx, system, user, "milestone_tasks", atomicTaskSchema)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(obj["tasks"])
	if err != nil {
		return nil, err
	}
	var items []struct {
		Title            string `json:"title"`
		Description      string `json:"description"`
		TaskType         string `json:"task_type"`
		TimeboxMinutes   int    `json:"timebox_minutes"`
		Priority         int    `json:"priority"`
		DeliverableType  string `json:"deliverable_type"`
		SpecificResource string `json:"specific_resource"`
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("tasks payload has wrong shape: %w", err)
	}

	var out []types.Task
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if len(title) < 10 || len(title) > 150 || strings.TrimSpace(item.Description) == "" {
			g.log.Debug("rejecting task with missing fields", "title", title)
			continue
		}
		if item.TimeboxMinutes < atomicTimeboxMin || item.TimeboxMinutes > atomicTimeboxMax {
			g.log.Debug("rejecting task with non-atomic timebox",
				"title", title, "timebox", item.TimeboxMinutes)
			continue
		}
		if quality.IsMetaTask(title) {
			g.log.Debug("rejecting meta-task", "title", title)
			continue
		}

		tt, err := types.ParseTaskType(item.TaskType)
		if err != nil {
			tt = types.TaskTypeCopilot
		}
		dt, err := types.ParseDeliverableType(item.DeliverableType)
		if err != nil {
			dt = types.DeliverableNote
		}
		priority := item.Priority
		if priority < 1 || priority > 5 {
			priority = 3
		}

		out = append(out, types.Task{
			Title:            title,
			Description:      strings.TrimSpace(item.Description),
			TaskType:         tt,
			TimeboxMinutes:   item.TimeboxMinutes,
			Priority:         priority,
			DeliverableType:  dt,
			DefinitionOfDone: atomicDoD(),
			SpecificResource: strings.TrimSpace(item.SpecificResource),
			Source:           types.SourceAtomicGenerator,
		})
	}
	return out, nil
}

func atomicDoD() []types.DoDItem {
	return []types.DoDItem{
		{Text: "Action completed in one sitting", Weight: 50},
		{Text: "Deliverable saved where you can find it", Weight: 30},
		{Text: "Result recorded against the milestone", Weight: 20},
	}
}
