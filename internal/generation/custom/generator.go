package custom

import (
	"fmt"

	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/profile"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

// Generator emits tasks only for profile flags it has concrete knowledge
// about. Every branch is independent and additive; a branch whose trigger
// flag is off contributes nothing, never generic filler.
type Generator struct {
	log *logger.Logger
}

func NewGenerator(log *logger.Logger) *Generator {
	return &Generator{log: log.With("service", "CustomGenerator")}
}

func (g *Generator) Generate(ctx *profile.Context) []types.Task {
	var out []types.Task
	out = append(out, g.founderTasks(ctx)...)
	out = append(out, g.gpaCompensationTasks(ctx)...)
	out = append(out, g.testPrepTasks(ctx)...)

	g.log.Info("custom generation complete",
		"founder", ctx.HasStartupBackground,
		"gpa_compensation", ctx.GPANeedsCompensation,
		"test_prep", ctx.TestPrepNeeded.Any(),
		"tasks", len(out))
	return out
}

func (g *Generator) founderTasks(ctx *profile.Context) []types.Task {
	if !ctx.HasStartupBackground {
		return nil
	}
	name := ctx.StartupName
	if name == "" {
		name = "your startup"
	}

	tasks := []types.Task{
		newTask(
			fmt.Sprintf("Write a one-page founder story about building %s", name),
			"Cover the problem, what you built, and one metric that shows traction. This becomes the backbone of essays and interviews.",
			types.TaskTypeCopilot, 45, 5, types.DeliverableDoc,
			[]types.DoDItem{
				{Text: "Problem and solution described", Weight: 35},
				{Text: "At least one concrete metric included", Weight: 40},
				{Text: "Saved as a reusable document", Weight: 25},
			},
		),
		newTask(
			fmt.Sprintf("Quantify 3 outcomes from %s for application materials", name),
			"Users, revenue, growth, or team size; estimate where exact numbers are gone.",
			types.TaskTypeManual, 30, 4, types.DeliverableNote,
			[]types.DoDItem{
				{Text: "Three outcomes written with numbers", Weight: 60},
				{Text: "Each outcome linked to evidence", Weight: 40},
			},
		),
		newTask(
			"Update your LinkedIn experience entry with founder metrics",
			fmt.Sprintf("Rewrite the %s entry to lead with the quantified outcomes.", name),
			types.TaskTypeCopilot, 25, 4, types.DeliverableLink,
			[]types.DoDItem{
				{Text: "Entry rewritten with metrics", Weight: 70},
				{Text: "Published live", Weight: 30},
			},
		),
		newTask(
			"Ask one early customer or teammate for a short written reference",
			"One paragraph on what you built and how you worked; useful for recommendations and interviews.",
			types.TaskTypeCopilot, 20, 3, types.DeliverableEmail,
			[]types.DoDItem{
				{Text: "Request sent with context", Weight: 60},
				{Text: "Follow-up reminder set", Weight: 40},
			},
		),
	}
	return tagAll(tasks)
}

func (g *Generator) gpaCompensationTasks(ctx *profile.Context) []types.Task {
	if !ctx.GPANeedsCompensation {
		return nil
	}
	tasks := []types.Task{
		newTask(
			"Draft a GPA-context paragraph for your applications",
			"Two or three sentences: acknowledge the number, point at what you were building instead, and show the upward evidence.",
			types.TaskTypeCopilot, 30, 5, types.DeliverableDoc,
			[]types.DoDItem{
				{Text: "Paragraph drafted without excuses framing", Weight: 60},
				{Text: "Reviewed against one admitted-student example", Weight: 40},
			},
		),
		newTask(
			"Collect 3 pieces of evidence that offset your GPA",
			"Certifications, shipped projects, publications, or awards; one line each with a link.",
			types.TaskTypeManual, 25, 4, types.DeliverableShortlist,
			[]types.DoDItem{
				{Text: "Three items listed with links", Weight: 70},
				{Text: "Strongest item marked for essays", Weight: 30},
			},
		),
	}
	return tagAll(tasks)
}

func (g *Generator) testPrepTasks(ctx *profile.Context) []types.Task {
	var tasks []types.Task
	if ctx.TestPrepNeeded.IELTS {
		tasks = append(tasks, newTask(
			fmt.Sprintf("Book an IELTS test date that leaves time to reach band %.1f", ctx.TargetIELTS),
			"Pick a date 6-8 weeks out so score reporting lands before application deadlines.",
			types.TaskTypeManual, 20, 5, types.DeliverableNote,
			[]types.DoDItem{
				{Text: "Test date booked and paid", Weight: 70},
				{Text: "Date added to your calendar", Weight: 30},
			},
		))
	}
	if ctx.TestPrepNeeded.TOEFL {
		tasks = append(tasks, newTask(
			fmt.Sprintf("Complete one timed TOEFL section and compare against target %.0f", ctx.TargetTOEFL),
			"Use an official practice set; log the score next to your target.",
			types.TaskTypeManual, 60, 4, types.DeliverableNote,
			[]types.DoDItem{
				{Text: "Section completed under time", Weight: 60},
				{Text: "Score logged against target", Weight: 40},
			},
		))
	}
	if ctx.TestPrepNeeded.GRE {
		tasks = append(tasks, newTask(
			fmt.Sprintf("Drill 20 GRE quant problems from your weakest topic toward %.0f", ctx.TargetGRE),
			"Review every miss before closing the session.",
			types.TaskTypeManual, 45, 4, types.DeliverableNote,
			[]types.DoDItem{
				{Text: "20 problems attempted", Weight: 50},
				{Text: "Every miss reviewed", Weight: 50},
			},
		))
	}
	return tagAll(tasks)
}

func newTask(title, description string, tt types.TaskType, timebox, priority int, deliverable types.DeliverableType, dod []types.DoDItem) types.Task {
	return types.Task{
		Title:            title,
		Description:      description,
		TaskType:         tt,
		TimeboxMinutes:   timebox,
		Priority:         priority,
		DeliverableType:  deliverable,
		DefinitionOfDone: dod,
		Source:           types.SourceCustomGenerator,
		TaskCategory:     "custom",
	}
}

func tagAll(tasks []types.Task) []types.Task {
	for i := range tasks {
		tasks[i].Source = types.SourceCustomGenerator
		tasks[i].TaskCategory = "custom"
	}
	return tasks
}
