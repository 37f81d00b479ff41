package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pathforge/taskpipe-backend/internal/enrich"
	"github.com/pathforge/taskpipe-backend/internal/generation/atomic"
	"github.com/pathforge/taskpipe-backend/internal/generation/custom"
	"github.com/pathforge/taskpipe-backend/internal/generation/scenario"
	"github.com/pathforge/taskpipe-backend/internal/generation/templates"
	"github.com/pathforge/taskpipe-backend/internal/generation/unique"
	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/profile"
	"github.com/pathforge/taskpipe-backend/internal/quality"
	"github.com/pathforge/taskpipe-backend/internal/repos"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

const templatesPerMilestoneType = 2

// Orchestrator wires the full generation pipeline: context extraction,
// coverage-routed candidate generation, enrichment, quality gates, dedup,
// scoring, scheduling, and persistence.
type Orchestrator struct {
	log *logger.Logger

	templateGen *templates.Generator
	enhancer    *templates.Enhancer
	customGen   *custom.Generator
	atomicGen   *atomic.Generator
	uniqueGen   *unique.Generator
	storyExt    *unique.StoryExtractor
	enricher    *enrich.Enricher
	verifier    *quality.Verifier

	taskRepo repos.TaskRecordRepo
	runRepo  repos.GenerationRunRepo
}

// Deps carries the orchestrator's collaborators. Repos may be nil, in which
// case the run produces tasks without persisting them.
type Deps struct {
	TemplateGen *templates.Generator
	Enhancer    *templates.Enhancer
	CustomGen   *custom.Generator
	AtomicGen   *atomic.Generator
	UniqueGen   *unique.Generator
	StoryExt    *unique.StoryExtractor
	Enricher    *enrich.Enricher
	Verifier    *quality.Verifier
	TaskRepo    repos.TaskRecordRepo
	RunRepo     repos.GenerationRunRepo
}

func NewOrchestrator(deps Deps, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		log:         log.With("service", "PipelineOrchestrator"),
		templateGen: deps.TemplateGen,
		enhancer:    deps.Enhancer,
		customGen:   deps.CustomGen,
		atomicGen:   deps.AtomicGen,
		uniqueGen:   deps.UniqueGen,
		storyExt:    deps.StoryExt,
		enricher:    deps.Enricher,
		verifier:    deps.Verifier,
		taskRepo:    deps.TaskRepo,
		runRepo:     deps.RunRepo,
	}
}

// RunResult is what the handler layer returns to the caller. An empty Tasks
// slice is the "generation failed, try again" state, not an error.
type RunResult struct {
	Tasks    []types.Task
	Coverage types.CoverageResult

	Candidates int
	Validated  int
	Deduped    int
	Created    int
	Skipped    int

	CostUSD  float64
	CacheHit bool
}

func (o *Orchestrator) Run(ctx context.Context, p *types.UserProfile, goal *types.Goal) (*RunResult, error) {
	pctx := profile.Extract(p, goal)
	coverage := scenario.Detect(pctx)
	o.log.Info("generation run starting",
		"user_id", pctx.UserID.String(),
		"goal_id", goal.ID.String(),
		"coverage_score", coverage.Score,
		"strategy", string(coverage.Strategy))

	stories := types.UserStories{}
	if o.storyExt != nil {
		stories = o.storyExt.Extract(ctx, pctx)
	}

	candidates, cost, cacheHit := o.generate(ctx, pctx, goal, stories, coverage.Strategy)
	res := &RunResult{Coverage: coverage, Candidates: len(candidates), CostUSD: cost, CacheHit: cacheHit}

	if len(candidates) == 0 {
		o.log.Warn("all generators returned zero tasks",
			"user_id", pctx.UserID.String(), "goal_id", goal.ID.String())
		o.recordRun(ctx, pctx, goal, coverage, res, "no candidates generated")
		return res, nil
	}

	tasks := o.enricher.EnrichAll(pctx, candidates)
	tasks = quality.FilterValid(tasks, pctx)
	res.Validated = len(tasks)

	tasks = o.verifyRiskySources(ctx, stories, tasks)
	tasks = SmartFilter(tasks, pctx, o.log)
	tasks = Dedup(tasks)
	res.Deduped = len(tasks)

	tasks = Schedule(tasks, pctx.Today, pctx.DaysAhead)
	tasks = Score(tasks, pctx)
	res.Tasks = tasks

	if err := o.persist(ctx, pctx, goal, res); err != nil {
		return nil, err
	}
	o.recordRun(ctx, pctx, goal, coverage, res, "")

	o.log.Info("generation run complete",
		"user_id", pctx.UserID.String(),
		"candidates", res.Candidates,
		"final", len(res.Tasks),
		"created", res.Created,
		"skipped", res.Skipped)
	return res, nil
}

// generate routes candidate production by the coverage strategy. Generators
// are kept in source-rank order so dedup tie-breaks fall out naturally.
func (o *Orchestrator) generate(ctx context.Context, pctx *profile.Context, goal *types.Goal, stories types.UserStories, strategy types.Strategy) ([]types.Task, float64, bool) {
	daysUntilTarget := profile.DaysUntilTarget(goal, pctx.Today)
	var out []types.Task
	cost := 0.0
	cacheHit := false

	switch strategy {
	case types.StrategyTemplates:
		out = append(out, o.templateTasks(ctx, pctx, daysUntilTarget)...)
		out = append(out, o.customGen.Generate(pctx)...)
		// A covered profile can still carry a category with no authored
		// journey; fall back to the full LLM batch rather than return nothing.
		if len(out) == 0 && o.uniqueGen != nil {
			o.log.Warn("template strategy produced no candidates, falling back to full batch",
				"category", string(pctx.Category))
			r := o.uniqueGen.FullBatch(ctx, pctx, stories)
			out = append(out, r.Tasks...)
			cost += r.CostUSD
			cacheHit = cacheHit || r.CacheHit
		}

	case types.StrategyHybrid:
		out = append(out, o.templateTasks(ctx, pctx, daysUntilTarget)...)
		out = append(out, o.customGen.Generate(pctx)...)
		if o.uniqueGen != nil {
			r := o.uniqueGen.Supplemental(ctx, pctx, stories)
			out = append(out, r.Tasks...)
			cost += r.CostUSD
			cacheHit = cacheHit || r.CacheHit
		}

	case types.StrategyFullLLM:
		out = append(out, o.customGen.Generate(pctx)...)
		if o.atomicGen != nil {
			atomicTasks, state := o.atomicGen.Generate(ctx, pctx, goal, stories)
			if state == atomic.StateDone {
				out = append(out, atomicTasks...)
				break
			}
			o.log.Warn("two-tier path failed, falling back to full batch",
				"state", state.String())
		}
		if o.uniqueGen != nil {
			r := o.uniqueGen.FullBatch(ctx, pctx, stories)
			out = append(out, r.Tasks...)
			cost += r.CostUSD
			cacheHit = cacheHit || r.CacheHit
		}
	}
	return out, cost, cacheHit
}

func (o *Orchestrator) templateTasks(ctx context.Context, pctx *profile.Context, daysUntilTarget int) []types.Task {
	tasks := o.templateGen.Generate(pctx, templatesPerMilestoneType, daysUntilTarget)
	if o.enhancer != nil && len(tasks) > 0 {
		tasks = o.enhancer.Enhance(ctx, pctx, tasks)
	}
	return tasks
}

// verifyRiskySources runs the LLM verify-and-fix layer over atomic and
// unique sourced tasks only; the deterministic sources skip it.
func (o *Orchestrator) verifyRiskySources(ctx context.Context, stories types.UserStories, tasks []types.Task) []types.Task {
	if o.verifier == nil {
		return tasks
	}
	var risky, safe []types.Task
	for _, task := range tasks {
		switch task.Source {
		case types.SourceAtomicGenerator, types.SourceUniqueGenerator:
			risky = append(risky, task)
		default:
			safe = append(safe, task)
		}
	}
	if len(risky) == 0 {
		return tasks
	}
	verified := o.verifier.VerifyAndFix(ctx, stories, risky)
	return append(safe, verified...)
}

func (o *Orchestrator) persist(ctx context.Context, pctx *profile.Context, goal *types.Goal, res *RunResult) error {
	if o.taskRepo == nil || len(res.Tasks) == 0 {
		return nil
	}
	records := make([]*types.TaskRecord, 0, len(res.Tasks))
	for _, task := range res.Tasks {
		records = append(records, taskToRecord(&task, pctx, goal))
	}
	created, skipped, err := o.taskRepo.CreateBatch(ctx, nil, records)
	if err != nil {
		return err
	}
	res.Created = created
	res.Skipped = skipped
	return nil
}

func taskToRecord(task *types.Task, pctx *profile.Context, goal *types.Goal) *types.TaskRecord {
	dod, _ := json.Marshal(task.DefinitionOfDone)
	constraints, _ := json.Marshal(task.Constraints)
	return &types.TaskRecord{
		UserID:               pctx.UserID,
		GoalID:               goal.ID,
		IdempotencyKey:       repos.IdempotencyKey(pctx.UserID, task.ScheduledDate, task.Title),
		Title:                task.Title,
		Description:          task.Description,
		TaskType:             task.TaskType,
		TimeboxMinutes:       task.TimeboxMinutes,
		Priority:             task.Priority,
		DeliverableType:      task.DeliverableType,
		DefinitionOfDone:     dod,
		Constraints:          constraints,
		ScheduledDate:        task.ScheduledDate,
		Source:               task.Source,
		MilestoneTitle:       task.MilestoneTitle,
		MilestoneIndex:       task.MilestoneIndex,
		SpecificResource:     task.SpecificResource,
		PersonalizationScore: task.PersonalizationScore,
		ValidationScore:      task.ValidationScore,
		Enriched:             task.Enriched,
	}
}

func (o *Orchestrator) recordRun(ctx context.Context, pctx *profile.Context, goal *types.Goal, coverage types.CoverageResult, res *RunResult, errMsg string) {
	if o.runRepo == nil {
		return
	}
	stageCounts, _ := json.Marshal(map[string]int{
		"candidates": res.Candidates,
		"validated":  res.Validated,
		"deduped":    res.Deduped,
		"persisted":  res.Created,
		"skipped":    res.Skipped,
	})
	run := &types.GenerationRun{
		UserID:         pctx.UserID,
		GoalID:         goal.ID,
		Strategy:       coverage.Strategy,
		CoverageScore:  coverage.Score,
		CandidateCount: res.Candidates,
		ValidatedCount: res.Validated,
		DedupedCount:   res.Deduped,
		PersistedCount: res.Created,
		SkippedCount:   res.Skipped,
		CostUSD:        res.CostUSD,
		CacheHit:       res.CacheHit,
		Succeeded:      len(res.Tasks) > 0,
		Error:          errMsg,
		StageCounts:    stageCounts,
	}
	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := o.runRepo.Create(cctx, nil, run); err != nil {
		o.log.Warn("failed to record generation run", "error", err)
	}
}
