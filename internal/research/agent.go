package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/platform/openai"
	"github.com/pathforge/taskpipe-backend/internal/profile"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

const (
	maxPlannedSearches = 8
	searchPoolLimit    = 5
	researchTasksMin   = 3
	researchTasksMax   = 8
)

// Agent produces tasks grounded in looked-up facts: it plans a handful of
// searches for the goal, runs them through a bounded pool, then generates
// tasks that cite what came back. A search that fails only costs its own
// result; generation proceeds on whatever answered.
type Agent struct {
	log      *logger.Logger
	llm      openai.Client
	searcher WebSearcher
}

func NewAgent(llm openai.Client, searcher WebSearcher, log *logger.Logger) *Agent {
	return &Agent{
		log:      log.With("service", "ResearchAgent"),
		llm:      llm,
		searcher: searcher,
	}
}

// Generate runs plan → search → generate. Planning failure degrades to
// generation without search context rather than returning nothing.
func (a *Agent) Generate(ctx context.Context, pctx *profile.Context, goal *types.Goal) []types.Task {
	queries, err := a.planSearches(ctx, pctx, goal)
	if err != nil {
		a.log.Warn("search planning failed, generating without lookups", "error", err)
		queries = nil
	}

	results := a.runSearches(ctx, queries)
	a.log.Info("searches complete", "planned", len(queries), "answered", len(results))

	tasks, err := a.generateTasks(ctx, pctx, goal, results)
	if err != nil {
		a.log.Warn("research generation failed, returning empty batch", "error", err)
		return nil
	}
	return tasks
}

var planSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"queries": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"required":             []string{"queries"},
	"additionalProperties": false,
}

func (a *Agent) planSearches(ctx context.Context, pctx *profile.Context, goal *types.Goal) ([]string, error) {
	if a.llm == nil {
		return nil, fmt.Errorf("no llm client configured")
	}

	system := fmt.Sprintf("You plan at most %d web searches whose answers would make an action plan concrete: deadlines, requirements, named contacts, costs.", maxPlannedSearches)
	user := fmt.Sprintf(
		"Goal: %s\nCategory: %s\nField: %s\nTarget country: %s\nTarget universities: %s",
		goal.Title, string(goal.Category), pctx.Field, pctx.TargetCountry,
		strings.Join(pctx.TargetUniversities, ", "),
	)

	obj, err := a.llm.GenerateJSON(ctx, system, user, "search_plan", planSchema)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(obj["queries"])
	if err != nil {
		return nil, err
	}
	var queries []string
	if err := json.Unmarshal(raw, &queries); err != nil {
		return nil, fmt.Errorf("queries payload has wrong shape: %w", err)
	}

	out := queries[:0:0]
	for _, q := range queries {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	if len(out) > maxPlannedSearches {
		out = out[:maxPlannedSearches]
	}
	return out, nil
}

// runSearches fans the queries out through a pool of at most 5 workers and
// waits for all of them. Individual failures are logged and dropped.
func (a *Agent) runSearches(ctx context.Context, queries []string) []SearchResult {
	if a.searcher == nil || len(queries) == 0 {
		return nil
	}

	limit := len(queries)
	if limit > searchPoolLimit {
		limit = searchPoolLimit
	}

	var mu sync.Mutex
	results := make([]SearchResult, 0, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, query := range queries {
		query := query
		g.Go(func() error {
			summary, err := a.searcher.Search(gctx, query)
			if err != nil {
				a.log.Warn("search failed, continuing without it", "query", query, "error", err)
				return nil
			}
			mu.Lock()
			results = append(results, SearchResult{Query: query, Summary: summary})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

var researchTaskSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"tasks": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":             map[string]any{"type": "string"},
					"description":       map[string]any{"type": "string"},
					"timebox_minutes":   map[string]any{"type": "integer"},
					"priority":          map[string]any{"type": "integer"},
					"specific_resource": map[string]any{"type": "string"},
				},
				"required":             []string{"title", "description", "timebox_minutes", "priority", "specific_resource"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"tasks"},
	"additionalProperties": false,
}

func (a *Agent) generateTasks(ctx context.Context, pctx *profile.Context, goal *types.Goal, results []SearchResult) ([]types.Task, error) {
	if a.llm == nil {
		return nil, fmt.Errorf("no llm client configured")
	}

	var findings strings.Builder
	for _, r := range results {
		fmt.Fprintf(&findings, "- %s: %s\n", r.Query, r.Summary)
	}
	if findings.Len() == 0 {
		findings.WriteString("- (no lookups available; use only facts stated in the goal)\n")
	}

	system := fmt.Sprintf(
		"You produce %d-%d atomic tasks grounded in the research findings below. Each task cites a concrete fact, deadline, or named resource from the findings. One action each, 15-60 minutes.",
		researchTasksMin, researchTasksMax,
	)
	user := fmt.Sprintf(
		"Goal: %s\nCategory: %s\nField: %s\n\nFindings:\n%s",
		goal.Title, string(goal.Category), pctx.Field, findings.String(),
	)

	obj, err := a.llm.GenerateJSON(ctx, system, user, "research_tasks", researchTaskSchema)
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
		TimeboxMinutes   int    `json:"timebox_minutes"`
		Priority         int    `json:"priority"`
		SpecificResource string `json:"specific_resource"`
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("tasks payload has wrong shape: %w", err)
	}

	var out []types.Task
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if len(title) < 10 || len(title) > 150 || strings.TrimSpace(item.Description) == "" {
			a.log.Debug("dropping task with missing fields", "title", title)
			continue
		}
		if item.TimeboxMinutes < 10 || item.TimeboxMinutes > 90 {
			a.log.Debug("dropping task with non-atomic timebox", "title", title, "timebox", item.TimeboxMinutes)
			continue
		}
		priority := item.Priority
		if priority < 1 || priority > 5 {
			priority = 3
		}
		out = append(out, types.Task{
			Title:            title,
			Description:      strings.TrimSpace(item.Description),
			TaskType:         types.TaskTypeCopilot,
			TimeboxMinutes:   item.TimeboxMinutes,
			Priority:         priority,
			DeliverableType:  types.DeliverableNote,
			DefinitionOfDone: researchDoD(),
			SpecificResource: strings.TrimSpace(item.SpecificResource),
			Source:           types.SourceResearchAgent,
			TaskCategory:     "research",
		})
	}
	return out, nil
}

func researchDoD() []types.DoDItem {
	return []types.DoDItem{
		{Text: "Cited fact checked against the source", Weight: 40},
		{Text: "Action completed in one sitting", Weight: 40},
		{Text: "Outcome noted with the source link", Weight: 20},
	}
}
