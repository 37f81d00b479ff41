package templates

import (
	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/profile"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

// Generator renders selected templates into candidate tasks.
type Generator struct {
	log *logger.Logger
	reg *Registry
}

func NewGenerator(reg *Registry, log *logger.Logger) *Generator {
	return &Generator{
		log: log.With("service", "TemplateGenerator"),
		reg: reg,
	}
}

// Generate walks the journey for the goal category, selects templates per
// milestone type, and renders each into a task. A template whose required
// vars are missing from context is skipped with a log line, never aborting
// the batch.
func (g *Generator) Generate(ctx *profile.Context, perType int, daysUntilTarget int) []types.Task {
	journey := Journey(ctx.Category)
	if len(journey) == 0 {
		g.log.Debug("no template journey for category", "category", string(ctx.Category))
		return nil
	}

	vars := ctx.Vars()
	var out []types.Task

	for mIdx, mt := range journey {
		for _, tpl := range Select(g.reg, ctx, mt, perType, daysUntilTarget) {
			task, ok := g.render(tpl, ctx, vars)
			if !ok {
				continue
			}
			task.MilestoneTitle = string(mt)
			task.MilestoneIndex = mIdx
			out = append(out, task)
		}
	}

	g.log.Info("template generation complete",
		"category", string(ctx.Category), "tasks", len(out))
	return out
}

func (g *Generator) render(tpl Template, ctx *profile.Context, vars map[string]string) (types.Task, bool) {
	if missing := tpl.MissingVars(vars); len(missing) > 0 {
		g.log.Debug("skipping template, missing vars", "template", tpl.ID, "missing", missing)
		return types.Task{}, false
	}

	title, err := Render(tpl.Title, vars)
	if err != nil {
		g.log.Warn("template title render failed", "template", tpl.ID, "error", err)
		return types.Task{}, false
	}
	description, err := Render(tpl.Description, vars)
	if err != nil {
		g.log.Warn("template description render failed", "template", tpl.ID, "error", err)
		return types.Task{}, false
	}

	return types.Task{
		Title:            title,
		Description:      description,
		TaskType:         tpl.TaskType,
		TimeboxMinutes:   tpl.TimeboxMinutes,
		Priority:         tpl.Priority,
		DeliverableType:  DeliverableFor(tpl.ID),
		DefinitionOfDone: DoDFor(tpl.ID),
		Constraints:      constraintsFor(ctx),
		Source:           types.SourceTemplateAgent,
		TaskCategory:     tpl.ID,
	}, true
}

func constraintsFor(ctx *profile.Context) map[string]any {
	c := map[string]any{
		"budget_tier":      string(ctx.BudgetTier),
		"experience_level": string(ctx.ExperienceLevel),
	}
	if ctx.TargetCountry != "" {
		c["country"] = ctx.TargetCountry
	}
	if ctx.BudgetAmount > 0 {
		c["budget_amount"] = ctx.BudgetAmount
	}
	return c
}
