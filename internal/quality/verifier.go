package quality

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/platform/openai"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

// Verifier is the LLM-backed verify-and-fix layer used on the two-tier and
// full-LLM paths, where hallucination risk is highest. One repair attempt
// per task, then drop. A transport failure accepts the task provisionally so
// an API outage never wipes the whole batch.
type Verifier struct {
	log *logger.Logger
	llm openai.Client
}

func NewVerifier(llm openai.Client, log *logger.Logger) *Verifier {
	return &Verifier{
		log: log.With("service", "TaskVerifier"),
		llm: llm,
	}
}

var verifySchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"passed": map[string]any{"type": "boolean"},
		"issues": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"required":             []string{"passed", "issues"},
	"additionalProperties": false,
}

var fixSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title":             map[string]any{"type": "string"},
		"description":       map[string]any{"type": "string"},
		"timebox_minutes":   map[string]any{"type": "integer"},
		"specific_resource": map[string]any{"type": "string"},
	},
	"required":             []string{"title", "description", "timebox_minutes", "specific_resource"},
	"additionalProperties": false,
}

// VerifyAndFix checks each task for atomicity, personalization, and resource
// specificity. Failing tasks get exactly one fix attempt and one re-check.
func (v *Verifier) VerifyAndFix(ctx context.Context, stories types.UserStories, tasks []types.Task) []types.Task {
	if v.llm == nil {
		return tasks
	}

	out := make([]types.Task, 0, len(tasks))
	for _, task := range tasks {
		passed, issues, err := v.verify(ctx, stories, &task)
		if err != nil {
			v.log.Warn("verification call failed, accepting provisionally",
				"title", task.Title, "error", err)
			out = append(out, task)
			continue
		}
		if passed {
			out = append(out, task)
			continue
		}

		fixed, err := v.fix(ctx, stories, &task, issues)
		if err != nil {
			v.log.Warn("fix call failed, dropping task", "title", task.Title, "error", err)
			continue
		}
		passed, _, err = v.verify(ctx, stories, fixed)
		if err != nil {
			out = append(out, *fixed)
			continue
		}
		if passed {
			out = append(out, *fixed)
			continue
		}
		v.log.Info("task failed re-verification after one repair, dropping",
			"title", task.Title)
	}
	return out
}

func (v *Verifier) verify(ctx context.Context, stories types.UserStories, task *types.Task) (bool, []string, error) {
	system := "You verify action-plan tasks. A good task is atomic (one action, one sitting), personalized to the user's actual story, and names a specific resource. Answer strictly."
	user := fmt.Sprintf(
		"User stories:\n%s\nTask title: %s\nDescription: %s\nTimebox: %d minutes\nResource: %s\n\nDoes this task pass?",
		formatStories(stories), task.Title, task.Description, task.TimeboxMinutes, task.SpecificResource,
	)

	obj, err := v.llm.GenerateJSON(ctx, system, user, "task_verification", verifySchema)
	if err != nil {
		return false, nil, err
	}

	passed, _ := obj["passed"].(bool)
	var issues []string
	if raw, err := json.Marshal(obj["issues"]); err == nil {
		_ = json.Unmarshal(raw, &issues)
	}
	return passed, issues, nil
}

func (v *Verifier) fix(ctx context.Context, stories types.UserStories, task *types.Task, issues []string) (*types.Task, error) {
	system := "You repair action-plan tasks. Keep the intent, fix the stated issues, stay within a 10-90 minute timebox, and reference the user's concrete story where possible."
	user := fmt.Sprintf(
		"User stories:\n%s\nTask title: %s\nDescription: %s\nTimebox: %d minutes\n\nIssues to fix:\n- %s",
		formatStories(stories), task.Title, task.Description, task.TimeboxMinutes,
		strings.Join(issues, "\n- "),
	)

	obj, err := v.llm.GenerateJSON(ctx, system, user, "task_fix", fixSchema)
	if err != nil {
		return nil, err
	}

	fixed := *task
	if title, ok := obj["title"].(string); ok && len(strings.TrimSpace(title)) >= 10 {
		fixed.Title = strings.TrimSpace(title)
	}
	if desc, ok := obj["description"].(string); ok {
		fixed.Description = strings.TrimSpace(desc)
	}
	if tb, ok := obj["timebox_minutes"].(float64); ok && int(tb) >= atomicTimeboxMin && int(tb) <= atomicTimeboxMax {
		fixed.TimeboxMinutes = int(tb)
	}
	if res, ok := obj["specific_resource"].(string); ok && strings.TrimSpace(res) != "" {
		fixed.SpecificResource = strings.TrimSpace(res)
	}
	return &fixed, nil
}

func formatStories(s types.UserStories) string {
	var sb strings.Builder
	add := func(label, val string) {
		if val != "" {
			fmt.Fprintf(&sb, "- %s: %s\n", label, val)
		}
	}
	add("work", s.Work)
	add("achievement", s.Achievement)
	add("network", s.Network)
	add("challenge", s.Challenge)
	add("aspiration", s.Aspiration)
	if sb.Len() == 0 {
		return "- (none extracted)\n"
	}
	return sb.String()
}
