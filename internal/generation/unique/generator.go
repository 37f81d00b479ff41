package unique

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	redisclient "github.com/pathforge/taskpipe-backend/internal/clients/redis"
	"github.com/pathforge/taskpipe-backend/internal/platform/envutil"
	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/platform/openai"
	"github.com/pathforge/taskpipe-backend/internal/profile"
	"github.com/pathforge/taskpipe-backend/internal/repos"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

// Generation types used as the second half of the cache key.
const (
	GenTypeSupplemental = "unique_supplemental"
	GenTypeFull         = "full_llm"
)

const (
	supplementalMin = 2
	supplementalMax = 3
	fullBatchMin    = 12
	fullBatchMax    = 18
)

// Result carries the generated tasks plus cost accounting for the run record.
type Result struct {
	Tasks    []types.Task
	CostUSD  float64
	CacheHit bool
}

// Generator produces tasks templates cannot cover: a small supplemental
// batch, or a complete batch for uncovered scenarios. Generations are cached
// by profile feature hash (redis first, durable table as fallback) and
// re-personalized on every read.
type Generator struct {
	log      *logger.Logger
	llm      openai.Client
	cache    redisclient.TaskCache
	fallback repos.TaskCacheRepo
	callCost float64
	cacheTTL time.Duration
}

func NewGenerator(llm openai.Client, cache redisclient.TaskCache, fallback repos.TaskCacheRepo, log *logger.Logger) *Generator {
	return &Generator{
		log:      log.With("service", "UniqueGenerator"),
		llm:      llm,
		cache:    cache,
		fallback: fallback,
		callCost: envutil.GetFloat("UNIQUE_GEN_COST_USD", 0.12, log),
		cacheTTL: envutil.GetDuration("TASK_CACHE_TTL", 30*24*time.Hour, log),
	}
}

// Supplemental returns 2-3 tasks for angles the template library misses.
func (g *Generator) Supplemental(ctx context.Context, pctx *profile.Context, stories types.UserStories) Result {
	return g.generate(ctx, pctx, stories, GenTypeSupplemental, supplementalMin, supplementalMax)
}

// FullBatch returns a complete 12-18 task plan for uncovered scenarios.
func (g *Generator) FullBatch(ctx context.Context, pctx *profile.Context, stories types.UserStories) Result {
	return g.generate(ctx, pctx, stories, GenTypeFull, fullBatchMin, fullBatchMax)
}

func (g *Generator) generate(ctx context.Context, pctx *profile.Context, stories types.UserStories, genType string, min, max int) Result {
	hash := FeatureHash(pctx)

	if cached, ok := g.lookup(ctx, hash, genType); ok {
		g.log.Info("cache hit for generation", "generation_type", genType, "profile_hash", hash)
		return Result{
			Tasks:    Personalize(cached.Tasks, pctx),
			CostUSD:  0,
			CacheHit: true,
		}
	}

	raw, err := g.callLLM(ctx, pctx, stories, genType, min, max)
	if err != nil {
		g.log.Warn("llm generation failed, returning empty batch",
			"generation_type", genType, "error", err)
		return Result{}
	}
	if len(raw) > max {
		raw = raw[:max]
	}

	g.store(ctx, hash, genType, raw)

	return Result{
		Tasks:   Personalize(raw, pctx),
		CostUSD: g.callCost,
	}
}

func (g *Generator) lookup(ctx context.Context, hash, genType string) (*redisclient.CachedGeneration, bool) {
	if g.cache != nil {
		cached, err := g.cache.Get(ctx, hash, genType)
		if err == nil && len(cached.Tasks) > 0 {
			return cached, true
		}
	}
	if g.fallback != nil {
		entry, err := g.fallback.Get(ctx, nil, hash, genType)
		if err == nil {
			var tasks []types.Task
			if jErr := json.Unmarshal(entry.Tasks, &tasks); jErr == nil && len(tasks) > 0 {
				_ = g.fallback.RecordHit(ctx, nil, entry.ID.String())
				return &redisclient.CachedGeneration{Tasks: tasks, CostUSD: entry.CostUSD}, true
			}
		}
	}
	return nil, false
}

func (g *Generator) store(ctx context.Context, hash, genType string, tasks []types.Task) {
	if len(tasks) == 0 {
		return
	}
	if g.cache != nil {
		err := g.cache.Set(ctx, hash, genType, &redisclient.CachedGeneration{
			Tasks:    tasks,
			CostUSD:  g.callCost,
			CachedAt: time.Now().UTC(),
		})
		if err != nil {
			g.log.Warn("redis cache write failed", "error", err)
		}
	}
	if g.fallback != nil {
		if err := g.fallback.Put(ctx, nil, hash, genType, tasks, g.callCost, g.cacheTTL); err != nil {
			g.log.Warn("durable cache write failed", "error", err)
		}
	}
}

var batchSchema = map[string]any{
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

func (g *Generator) callLLM(ctx context.Context, pctx *profile.Context, stories types.UserStories, genType string, min, max int) ([]types.Task, error) {
	if g.llm == nil {
		return nil, fmt.Errorf("no llm client configured")
	}

	var ask string
	switch genType {
	case GenTypeFull:
		ask = fmt.Sprintf("Produce %d-%d atomic tasks forming a complete plan for this goal.", min, max)
	default:
		ask = fmt.Sprintf("Produce %d-%d atomic tasks covering angles a generic plan would miss for this profile.", min, max)
	}

	system := "You generate atomic action-plan tasks: one action each, 15-90 minutes, a concrete deliverable, and a named resource. " +
		"Use placeholders [university name], [startup name], [field], [target role], [country] instead of concrete personal values so plans can be reused."
	user := fmt.Sprintf(
		"Goal category: %s\nBackground: %s\nField: %s\nExperience: %s\nBudget tier: %s\n\nUser stories:\n- work: %s\n- achievement: %s\n- challenge: %s\n- aspiration: %s\n\n%s",
		string(pctx.Category), pctx.Background, pctx.Field,
		string(pctx.ExperienceLevel), string(pctx.BudgetTier),
		stories.Work, stories.Achievement, stories.Challenge, stories.Aspiration,
		ask,
	)

	obj, err := g.llm.GenerateJSON(ctx, system, user, "task_batch", batchSchema)
	if err != nil {
		return nil, err
	}
	return decodeTasks(obj, g.log)
}

// decodeTasks parses the model payload defensively: malformed items are
// dropped one by one, never the whole batch.
func decodeTasks(obj map[string]any, log *logger.Logger) ([]types.Task, error) {
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
		if len(title) < 10 || len(title) > 150 {
			log.Debug("dropping task with bad title length", "title", title)
			continue
		}
		if item.TimeboxMinutes < 10 || item.TimeboxMinutes > 90 {
			log.Debug("dropping task with non-atomic timebox", "title", title, "timebox", item.TimeboxMinutes)
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
			priority = 5
		}

		out = append(out, types.Task{
			Title:            title,
			Description:      strings.TrimSpace(item.Description),
			TaskType:         tt,
			TimeboxMinutes:   item.TimeboxMinutes,
			Priority:         priority,
			DeliverableType:  dt,
			DefinitionOfDone: defaultUniqueDoD(),
			SpecificResource: strings.TrimSpace(item.SpecificResource),
			Source:           types.SourceUniqueGenerator,
			TaskCategory:     "unique",
		})
	}
	return out, nil
}

func defaultUniqueDoD() []types.DoDItem {
	return []types.DoDItem{
		{Text: "Single action completed in one sitting", Weight: 50},
		{Text: "Deliverable produced and saved", Weight: 35},
		{Text: "Outcome noted for the next task", Weight: 15},
	}
}

// placeholderFallbacks keep substituted text bracket-free when the user has
// no concrete value for a placeholder.
var placeholderFallbacks = map[string]string{
	"[university name]": "a target university",
	"[startup name]":    "your startup",
	"[field]":           "your field",
	"[target role]":     "your target role",
	"[country]":         "your target country",
	"[degree]":          "your target degree",
}

// replaceFold is a case-insensitive ReplaceAll; models are inconsistent
// about placeholder casing ("[University Name]" vs "[university name]").
func replaceFold(s, old, new string) string {
	if old == "" {
		return s
	}
	lower := strings.ToLower(s)
	oldLower := strings.ToLower(old)
	var b strings.Builder
	for {
		i := strings.Index(lower, oldLower)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		b.WriteString(new)
		s = s[i+len(old):]
		lower = lower[i+len(old):]
	}
}

// Personalize substitutes generic placeholders with this user's concrete
// values. Applied on every cache read and fresh generation, so a cache hit
// is never returned verbatim.
func Personalize(tasks []types.Task, pctx *profile.Context) []types.Task {
	values := map[string]string{
		"[university name]": pctx.PrimaryUniversity(),
		"[startup name]":    pctx.StartupName,
		"[field]":           pctx.Field,
		"[target role]":     pctx.TargetRole,
		"[country]":         pctx.TargetCountry,
		"[degree]":          pctx.Degree,
	}

	sub := func(s string) string {
		for ph, val := range values {
			if val == "" {
				val = placeholderFallbacks[ph]
			}
			s = replaceFold(s, ph, val)
		}
		return s
	}

	out := make([]types.Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		out[i].Title = sub(out[i].Title)
		out[i].Description = sub(out[i].Description)
		out[i].SpecificResource = sub(out[i].SpecificResource)
		dod := make([]types.DoDItem, len(out[i].DefinitionOfDone))
		copy(dod, out[i].DefinitionOfDone)
		for j := range dod {
			dod[j].Text = sub(dod[j].Text)
		}
		out[i].DefinitionOfDone = dod
	}
	return out
}
