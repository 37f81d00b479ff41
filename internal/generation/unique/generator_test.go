package unique

import (
	"context"
	"errors"
	"strings"
	"testing"

	redisclient "github.com/pathforge/taskpipe-backend/internal/clients/redis"
	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/profile"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

type memCache struct {
	entries map[string]*redisclient.CachedGeneration
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]*redisclient.CachedGeneration{}}
}

func (m *memCache) Get(ctx context.Context, hash, genType string) (*redisclient.CachedGeneration, error) {
	if e, ok := m.entries[hash+"|"+genType]; ok {
		return e, nil
	}
	return nil, redisclient.ErrCacheMiss
}

func (m *memCache) Set(ctx context.Context, hash, genType string, gen *redisclient.CachedGeneration) error {
	m.entries[hash+"|"+genType] = gen
	return nil
}

func (m *memCache) Close() error { return nil }

type stubLLM struct {
	obj   map[string]any
	err   error
	calls int
}

func (s *stubLLM) GenerateText(ctx context.Context, system, user string) (string, error) {
	return "", errors.New("not used")
}

func (s *stubLLM) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.obj, nil
}

func taskObj(title string) map[string]any {
	return map[string]any{
		"title":             title,
		"description":       "Use [university name] resources for [field].",
		"task_type":         "copilot",
		"timebox_minutes":   float64(30),
		"priority":          float64(4),
		"deliverable_type":  "doc",
		"specific_resource": "",
	}
}

func founderCtx(university, startup string) *profile.Context {
	return &profile.Context{
		Category:             types.CategoryStudy,
		Background:           "founder",
		Field:                "computer science",
		BudgetTier:           types.BudgetTierStandard,
		ExperienceLevel:      types.ExperienceMid,
		HasStartupBackground: true,
		StartupName:          startup,
		TargetUniversities:   []string{university},
	}
}

func TestFeatureHashExcludesIdentifyingFields(t *testing.T) {
	a := founderCtx("MIT", "Acme")
	b := founderCtx("Stanford", "Globex")
	b.FullName = "Someone Else"
	if FeatureHash(a) != FeatureHash(b) {
		t.Fatalf("structurally identical users must hash identically")
	}

	c := founderCtx("MIT", "Acme")
	c.Field = "bioethics"
	if FeatureHash(a) == FeatureHash(c) {
		t.Fatalf("different field must change the hash")
	}
}

func TestCacheRoundTripPersonalizes(t *testing.T) {
	log := logger.NewNop()
	cache := newMemCache()
	stub := &stubLLM{obj: map[string]any{"tasks": []any{
		taskObj("Draft an outreach email referencing [startup name]"),
		taskObj("Request a syllabus from [university name] admissions"),
	}}}

	g := NewGenerator(stub, cache, nil, log)

	userA := founderCtx("MIT", "Acme")
	resA := g.Supplemental(context.Background(), userA, types.UserStories{})
	if resA.CacheHit {
		t.Fatalf("first generation must be a cache miss")
	}
	if resA.CostUSD <= 0 {
		t.Fatalf("fresh generation must carry a cost")
	}
	if stub.calls != 1 {
		t.Fatalf("want 1 llm call, got %d", stub.calls)
	}

	userB := founderCtx("Stanford", "Globex")
	resB := g.Supplemental(context.Background(), userB, types.UserStories{})
	if !resB.CacheHit {
		t.Fatalf("structurally identical user must hit the cache")
	}
	if resB.CostUSD != 0 {
		t.Fatalf("cache hit must cost nothing, got %f", resB.CostUSD)
	}
	if stub.calls != 1 {
		t.Fatalf("cache hit must not call the llm")
	}

	if len(resA.Tasks) != len(resB.Tasks) {
		t.Fatalf("cached list must be structurally identical")
	}
	foundA, foundB := false, false
	for _, task := range resA.Tasks {
		if strings.Contains(task.Title, "Acme") || strings.Contains(task.Title, "MIT") {
			foundA = true
		}
		if strings.Contains(task.Title+task.Description, "[") {
			t.Fatalf("placeholder leaked for user A: %q", task.Title)
		}
	}
	for _, task := range resB.Tasks {
		if strings.Contains(task.Title, "Globex") || strings.Contains(task.Title, "Stanford") {
			foundB = true
		}
		if strings.Contains(task.Title, "Acme") || strings.Contains(task.Title, "MIT") {
			t.Fatalf("user A values leaked into user B tasks: %q", task.Title)
		}
	}
	if !foundA || !foundB {
		t.Fatalf("each user must see their own substituted values")
	}
}

func TestLLMFailureYieldsEmptyBatch(t *testing.T) {
	g := NewGenerator(&stubLLM{err: errors.New("boom")}, newMemCache(), nil, logger.NewNop())
	res := g.Supplemental(context.Background(), founderCtx("MIT", "Acme"), types.UserStories{})
	if len(res.Tasks) != 0 {
		t.Fatalf("transport failure must produce zero tasks, got %d", len(res.Tasks))
	}
}

func TestDecodeDropsMalformedItems(t *testing.T) {
	obj := map[string]any{"tasks": []any{
		taskObj("Request a syllabus from [university name] admissions"),
		map[string]any{"title": "x", "timebox_minutes": float64(30)},          // title too short
		map[string]any{"title": "A task with a six hour timebox attached", "timebox_minutes": float64(360)}, // not atomic
	}}
	tasks, err := decodeTasks(obj, logger.NewNop())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("want 1 surviving task, got %d", len(tasks))
	}
	if tasks[0].Source != types.SourceUniqueGenerator {
		t.Fatalf("source = %s, want unique_generator", tasks[0].Source)
	}
}

func TestPersonalizeIgnoresPlaceholderCasing(t *testing.T) {
	tasks := []types.Task{{
		Title:       "Email the admissions office at [University Name]",
		Description: "Mention your work in [FIELD] and cite [Startup Name].",
	}}
	pctx := founderCtx("MIT", "Acme")
	out := Personalize(tasks, pctx)
	if !strings.Contains(out[0].Title, "MIT") {
		t.Fatalf("mixed-case placeholder not substituted: %q", out[0].Title)
	}
	if !strings.Contains(out[0].Description, "computer science") || !strings.Contains(out[0].Description, "Acme") {
		t.Fatalf("mixed-case placeholders not substituted: %q", out[0].Description)
	}
	if strings.Contains(out[0].Title+out[0].Description, "[") {
		t.Fatalf("bracket left behind: %q / %q", out[0].Title, out[0].Description)
	}
}

func TestPersonalizeFallsBackWithoutBrackets(t *testing.T) {
	tasks := []types.Task{{
		Title:       "Email the admissions office at [university name]",
		Description: "Mention your work in [field].",
	}}
	pctx := &profile.Context{} // no concrete values at all
	out := Personalize(tasks, pctx)
	if strings.Contains(out[0].Title, "[") || strings.Contains(out[0].Description, "[") {
		t.Fatalf("fallback substitution must not leave brackets: %q / %q", out[0].Title, out[0].Description)
	}
}
