package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pathforge/taskpipe-backend/internal/enrich"
	"github.com/pathforge/taskpipe-backend/internal/generation/atomic"
	"github.com/pathforge/taskpipe-backend/internal/generation/custom"
	"github.com/pathforge/taskpipe-backend/internal/generation/templates"
	"github.com/pathforge/taskpipe-backend/internal/generation/unique"
	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

type scriptedLLM struct {
	calls     int
	responses []map[string]any
	errs      []error
}

func (s *scriptedLLM) GenerateText(ctx context.Context, system, user string) (string, error) {
	return "", fmt.Errorf("not scripted")
}

func (s *scriptedLLM) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	idx := s.calls
	s.calls++
	if idx < len(s.errs) && s.errs[idx] != nil {
		return nil, s.errs[idx]
	}
	if idx < len(s.responses) {
		return s.responses[idx], nil
	}
	return nil, fmt.Errorf("unscripted call %d", idx)
}

type memTaskRepo struct {
	byKey map[string]*types.TaskRecord
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{byKey: map[string]*types.TaskRecord{}}
}

func (m *memTaskRepo) CreateBatch(ctx context.Context, tx *gorm.DB, records []*types.TaskRecord) (int, int, error) {
	created, skipped := 0, 0
	for _, rec := range records {
		if _, ok := m.byKey[rec.IdempotencyKey]; ok {
			skipped++
			continue
		}
		m.byKey[rec.IdempotencyKey] = rec
		created++
	}
	return created, skipped, nil
}

func (m *memTaskRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.TaskRecord, error) {
	var out []*types.TaskRecord
	for _, rec := range m.byKey {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memTaskRepo) ListByGoal(ctx context.Context, tx *gorm.DB, goalID uuid.UUID) ([]*types.TaskRecord, error) {
	var out []*types.TaskRecord
	for _, rec := range m.byKey {
		if rec.GoalID == goalID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type memRunRepo struct {
	runs []*types.GenerationRun
}

func (m *memRunRepo) Create(ctx context.Context, tx *gorm.DB, run *types.GenerationRun) (*types.GenerationRun, error) {
	m.runs = append(m.runs, run)
	return run, nil
}

func (m *memRunRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.GenerationRun, error) {
	return m.runs, nil
}

func founderProfile() (*types.UserProfile, *types.Goal) {
	userID := uuid.New()
	specs, _ := json.Marshal(map[string]any{
		"field":               "computer science",
		"country":             "USA",
		"budget":              "$25k",
		"target_universities": []string{"MIT", "Stanford"},
	})
	p := &types.UserProfile{
		UserID:      userID,
		FullName:    "Dana Ruiz",
		CurrentRole: "software engineer",
		YearsOfExp:  5,
		IsFounder:   true,
		StartupName: "Finly",
	}
	g := &types.Goal{
		ID:             uuid.New(),
		UserID:         userID,
		Category:       types.CategoryStudy,
		Title:          "MS in computer science abroad",
		Specifications: specs,
	}
	return p, g
}

func nurseProfile() (*types.UserProfile, *types.Goal) {
	userID := uuid.New()
	specs, _ := json.Marshal(map[string]any{"field": "medical ai"})
	p := &types.UserProfile{
		UserID:      userID,
		CurrentRole: "registered nurse",
		YearsOfExp:  6,
	}
	g := &types.Goal{
		ID:             uuid.New(),
		UserID:         userID,
		Category:       types.CategoryStudy,
		Title:          "Move into medical AI research",
		Specifications: specs,
	}
	return p, g
}

func newTestOrchestrator(t *testing.T, llm *scriptedLLM, taskRepo *memTaskRepo, runRepo *memRunRepo) *Orchestrator {
	t.Helper()
	log := logger.NewNop()
	deps := Deps{
		TemplateGen: templates.NewGenerator(templates.NewRegistry(log), log),
		CustomGen:   custom.NewGenerator(log),
		Enricher:    enrich.NewEnricher(log),
	}
	if llm != nil {
		deps.AtomicGen = atomic.NewGenerator(llm, log)
		deps.UniqueGen = unique.NewGenerator(llm, nil, nil, log)
	}
	if taskRepo != nil {
		deps.TaskRepo = taskRepo
	}
	if runRepo != nil {
		deps.RunRepo = runRepo
	}
	return NewOrchestrator(deps, log)
}

func TestRunCoveredProfileUsesTemplates(t *testing.T) {
	p, g := founderProfile()
	taskRepo := newMemTaskRepo()
	runRepo := &memRunRepo{}
	orch := newTestOrchestrator(t, nil, taskRepo, runRepo)

	res, err := orch.Run(context.Background(), p, g)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Coverage.Strategy != types.StrategyTemplates {
		t.Fatalf("founder + cs should route to templates, got %s", res.Coverage.Strategy)
	}
	if res.Candidates == 0 {
		t.Fatalf("template path produced no candidates")
	}
	// The four founder tasks survive every gate regardless of template yield.
	if len(res.Tasks) < 4 {
		t.Fatalf("want at least 4 final tasks, got %d", len(res.Tasks))
	}
	for _, task := range res.Tasks {
		if task.ScheduledDate == "" {
			t.Fatalf("task %q has no scheduled date", task.Title)
		}
	}
	if res.Created != len(res.Tasks) || res.Skipped != 0 {
		t.Fatalf("first run should persist everything: created=%d skipped=%d tasks=%d",
			res.Created, res.Skipped, len(res.Tasks))
	}
	if res.CostUSD != 0 {
		t.Fatalf("template path must cost nothing, got %f", res.CostUSD)
	}
	if len(runRepo.runs) != 1 {
		t.Fatalf("want 1 run record, got %d", len(runRepo.runs))
	}
	run := runRepo.runs[0]
	if !run.Succeeded || run.Error != "" {
		t.Fatalf("run record should be a success, got succeeded=%v error=%q", run.Succeeded, run.Error)
	}
	if run.PersistedCount != res.Created {
		t.Fatalf("run record persisted count mismatch: %d vs %d", run.PersistedCount, res.Created)
	}
}

func TestRunIsIdempotentAcrossRetries(t *testing.T) {
	p, g := founderProfile()
	taskRepo := newMemTaskRepo()
	orch := newTestOrchestrator(t, nil, taskRepo, nil)

	first, err := orch.Run(context.Background(), p, g)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := orch.Run(context.Background(), p, g)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if second.Created != 0 {
		t.Fatalf("retry must not duplicate tasks, created %d", second.Created)
	}
	if second.Skipped != first.Created {
		t.Fatalf("retry should skip all %d existing tasks, skipped %d", first.Created, second.Skipped)
	}
}

func TestRunUncoveredProfileFallsBackToFullBatch(t *testing.T) {
	p, g := nurseProfile()

	titles := []string{
		"Email the clinical informatics program director at [university name]",
		"List 8 health-AI labs that accept clinicians without a CS degree",
		"Draft a 200-word summary of your ICU triage improvement project",
		"Register for the next HIMSS health informatics webinar",
		"Compare 3 bridge certificate programs in clinical data science",
		"Write a shortlist of 5 papers on nursing workflows and machine learning",
		"Message one nurse-turned-researcher on LinkedIn with a specific question",
		"Download the admission checklist for [university name] and mark gaps",
		"Draft the first paragraph of your statement about bedside-to-research",
		"Book a 30-minute call with your hospital's clinical data analyst",
		"Outline the patient-safety dataset you could analyze from your unit",
		"Collect your continuing-education transcripts into one folder",
	}
	batch := make([]any, 0, len(titles))
	for i, title := range titles {
		batch = append(batch, map[string]any{
			"title":             title,
			"description":       fmt.Sprintf("Step %d: produce the named deliverable in one sitting and save it to your application folder.", i+1),
			"task_type":         "copilot",
			"timebox_minutes":   float64(30),
			"priority":          float64(4),
			"deliverable_type":  "email",
			"specific_resource": "program admissions page",
		})
	}
	// Call 0: milestone tier fails. Call 1: full batch succeeds.
	llm := &scriptedLLM{
		errs:      []error{fmt.Errorf("upstream 500"), nil},
		responses: []map[string]any{nil, {"tasks": batch}},
	}
	runRepo := &memRunRepo{}
	orch := newTestOrchestrator(t, llm, newMemTaskRepo(), runRepo)

	res, err := orch.Run(context.Background(), p, g)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Coverage.Strategy != types.StrategyFullLLM {
		t.Fatalf("nurse + medical ai should route to full_llm, got %s", res.Coverage.Strategy)
	}
	if llm.calls != 2 {
		t.Fatalf("want 2 llm calls (failed tier + fallback batch), got %d", llm.calls)
	}
	if len(res.Tasks) == 0 {
		t.Fatalf("fallback batch produced no tasks")
	}
	if res.CostUSD <= 0 {
		t.Fatalf("fresh llm generation must report cost")
	}
	for _, task := range res.Tasks {
		if task.Source != types.SourceUniqueGenerator && task.Source != types.SourceCustomGenerator {
			t.Fatalf("unexpected source %s in full_llm output", task.Source)
		}
		if containsAny(task.Title, []string{"[university name]"}) {
			t.Fatalf("placeholder leaked into final task: %q", task.Title)
		}
	}
}

func TestRunTemplatesStrategyWithoutJourneyFallsBackToFullBatch(t *testing.T) {
	// Covered background and field, but a goal category with no authored
	// template journey and no custom-rule triggers.
	userID := uuid.New()
	specs, _ := json.Marshal(map[string]any{"field": "computer science"})
	p := &types.UserProfile{
		UserID:      userID,
		CurrentRole: "software engineer",
		YearsOfExp:  5,
	}
	g := &types.Goal{
		ID:             uuid.New(),
		UserID:         userID,
		Category:       types.CategorySport,
		Title:          "Run a sub-4 marathon next spring",
		Specifications: specs,
	}

	titles := []string{
		"Book a gait analysis session at a local running clinic",
		"Build a 16-week marathon training plan spreadsheet with weekly mileage",
		"Register for one tune-up half marathon 6 weeks before race day",
		"Record your current 5k time at a parkrun this Saturday",
		"Compare 3 carbon-plated shoe options against your budget in a shortlist",
		"Schedule two strength sessions per week in your calendar for 4 weeks",
	}
	batch := make([]any, 0, len(titles))
	for i, title := range titles {
		batch = append(batch, map[string]any{
			"title":            title,
			"description":      fmt.Sprintf("Step %d: finish the named deliverable in one sitting and log it in your training journal.", i+1),
			"task_type":        "manual",
			"timebox_minutes":  float64(30),
			"priority":         float64(4),
			"deliverable_type": "note",
		})
	}
	llm := &scriptedLLM{responses: []map[string]any{{"tasks": batch}}}
	runRepo := &memRunRepo{}
	orch := newTestOrchestrator(t, llm, newMemTaskRepo(), runRepo)

	res, err := orch.Run(context.Background(), p, g)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Coverage.Strategy != types.StrategyTemplates {
		t.Fatalf("engineer + cs should route to templates, got %s", res.Coverage.Strategy)
	}
	if llm.calls != 1 {
		t.Fatalf("want 1 llm call (fallback batch), got %d", llm.calls)
	}
	if len(res.Tasks) == 0 {
		t.Fatalf("journey-less category must fall back to the full batch, got 0 tasks")
	}
	for _, task := range res.Tasks {
		if task.Source != types.SourceUniqueGenerator {
			t.Fatalf("fallback output should be unique-sourced, got %s", task.Source)
		}
	}
	if res.CostUSD <= 0 {
		t.Fatalf("fresh llm fallback must report cost")
	}
}

func TestRunAllGeneratorsFailingIsNotAnError(t *testing.T) {
	p, g := nurseProfile()

	llm := &scriptedLLM{errs: []error{fmt.Errorf("down"), fmt.Errorf("down")}}
	taskRepo := newMemTaskRepo()
	runRepo := &memRunRepo{}
	orch := newTestOrchestrator(t, llm, taskRepo, runRepo)

	res, err := orch.Run(context.Background(), p, g)
	if err != nil {
		t.Fatalf("generation failure must not be a transport error: %v", err)
	}
	if len(res.Tasks) != 0 || res.Candidates != 0 {
		t.Fatalf("want empty result, got %d tasks / %d candidates", len(res.Tasks), res.Candidates)
	}
	if len(taskRepo.byKey) != 0 {
		t.Fatalf("nothing should be persisted on an empty run")
	}
	if len(runRepo.runs) != 1 {
		t.Fatalf("empty run must still be recorded")
	}
	if runRepo.runs[0].Succeeded || runRepo.runs[0].Error == "" {
		t.Fatalf("empty run record should carry the failure reason")
	}
}
