package research

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/profile"
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

type countingSearcher struct {
	mu        sync.Mutex
	inFlight  int
	maxSeen   int
	total     int
	failWhen  func(query string) bool
	block     chan struct{}
}

func (c *countingSearcher) Search(ctx context.Context, query string) (string, error) {
	c.mu.Lock()
	c.inFlight++
	c.total++
	if c.inFlight > c.maxSeen {
		c.maxSeen = c.inFlight
	}
	c.mu.Unlock()

	if c.block != nil {
		<-c.block
	}

	c.mu.Lock()
	c.inFlight--
	c.mu.Unlock()

	if c.failWhen != nil && c.failWhen(query) {
		return "", fmt.Errorf("search backend error")
	}
	return "answer for " + query, nil
}

func taskResponse(titles ...string) map[string]any {
	items := make([]any, 0, len(titles))
	for _, title := range titles {
		items = append(items, map[string]any{
			"title":             title,
			"description":       "Check the cited deadline on the program page and note it in your tracker.",
			"timebox_minutes":   float64(25),
			"priority":          float64(4),
			"specific_resource": "program admissions page",
		})
	}
	return map[string]any{"tasks": items}
}

func queriesResponse(queries ...string) map[string]any {
	items := make([]any, 0, len(queries))
	for _, q := range queries {
		items = append(items, q)
	}
	return map[string]any{"queries": items}
}

func testContext() *profile.Context {
	return &profile.Context{
		Field:              "computer science",
		TargetCountry:      "USA",
		TargetUniversities: []string{"MIT"},
	}
}

func testGoal() *types.Goal {
	return &types.Goal{Title: "MS admission", Category: types.CategoryStudy}
}

func TestGenerateProducesSourcedTasks(t *testing.T) {
	llm := &scriptedLLM{
		responses: []map[string]any{
			queriesResponse("mit application deadline", "cs phd funding"),
			taskResponse(
				"Note the December 15 deadline for the MIT application",
				"Email the graduate coordinator about assistantship openings",
			),
		},
	}
	searcher := &countingSearcher{}
	agent := NewAgent(llm, searcher, logger.NewNop())

	tasks := agent.Generate(context.Background(), testContext(), testGoal())
	if len(tasks) != 2 {
		t.Fatalf("want 2 tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.Source != types.SourceResearchAgent {
			t.Fatalf("task %q has source %s", task.Title, task.Source)
		}
		if task.TimeboxMinutes < 10 || task.TimeboxMinutes > 90 {
			t.Fatalf("task %q timebox out of range: %d", task.Title, task.TimeboxMinutes)
		}
	}
	if searcher.total != 2 {
		t.Fatalf("want 2 searches executed, got %d", searcher.total)
	}
}

func TestSearchPoolIsBounded(t *testing.T) {
	block := make(chan struct{})
	searcher := &countingSearcher{block: block}
	agent := NewAgent(nil, searcher, logger.NewNop())

	queries := make([]string, 8)
	for i := range queries {
		queries[i] = fmt.Sprintf("query %d", i)
	}

	done := make(chan []SearchResult)
	go func() {
		done <- agent.runSearches(context.Background(), queries)
	}()

	// Let the pool saturate, then release everything.
	for {
		searcher.mu.Lock()
		saturated := searcher.inFlight == searchPoolLimit
		searcher.mu.Unlock()
		if saturated {
			break
		}
		time.Sleep(time.Millisecond)
	}
	close(block)
	results := <-done

	if searcher.maxSeen > searchPoolLimit {
		t.Fatalf("pool exceeded limit: %d concurrent searches", searcher.maxSeen)
	}
	if len(results) != 8 {
		t.Fatalf("want all 8 results, got %d", len(results))
	}
}

func TestSearchFailuresDoNotAbortBatch(t *testing.T) {
	searcher := &countingSearcher{
		failWhen: func(query string) bool { return query == "query 1" },
	}
	agent := NewAgent(nil, searcher, logger.NewNop())

	results := agent.runSearches(context.Background(), []string{"query 0", "query 1", "query 2"})
	if len(results) != 2 {
		t.Fatalf("one failed search should cost one result, got %d of 3", len(results))
	}
	if searcher.total != 3 {
		t.Fatalf("all searches must still run, got %d", searcher.total)
	}
}

func TestPlanFailureFallsBackToNoLookups(t *testing.T) {
	llm := &scriptedLLM{
		errs: []error{fmt.Errorf("upstream 500"), nil},
		responses: []map[string]any{
			nil,
			taskResponse("List 5 target programs with their stated admission requirements"),
		},
	}
	searcher := &countingSearcher{}
	agent := NewAgent(llm, searcher, logger.NewNop())

	tasks := agent.Generate(context.Background(), testContext(), testGoal())
	if len(tasks) != 1 {
		t.Fatalf("fallback generation should still produce tasks, got %d", len(tasks))
	}
	if searcher.total != 0 {
		t.Fatalf("no searches should run when planning fails, got %d", searcher.total)
	}
}

func TestGenerateDropsMalformedItems(t *testing.T) {
	resp := taskResponse("Note the December 15 deadline for the MIT application")
	items := resp["tasks"].([]any)
	items = append(items,
		map[string]any{
			"title":             "too short",
			"description":       "x",
			"timebox_minutes":   float64(25),
			"priority":          float64(4),
			"specific_resource": "",
		},
		map[string]any{
			"title":             "Draft a full application from scratch in one marathon session",
			"description":       "This cannot fit a single sitting.",
			"timebox_minutes":   float64(480),
			"priority":          float64(4),
			"specific_resource": "",
		},
	)
	resp["tasks"] = items

	llm := &scriptedLLM{
		responses: []map[string]any{queriesResponse(), resp},
	}
	agent := NewAgent(llm, &countingSearcher{}, logger.NewNop())

	tasks := agent.Generate(context.Background(), testContext(), testGoal())
	if len(tasks) != 1 {
		t.Fatalf("malformed items must be dropped individually, got %d tasks", len(tasks))
	}
}

func TestStaticSearcherAnswersKnownTopics(t *testing.T) {
	s := NewStaticSearcher(logger.NewNop())

	if _, err := s.Search(context.Background(), "mit application deadline fall 2027"); err != nil {
		t.Fatalf("deadline query should answer: %v", err)
	}
	if _, err := s.Search(context.Background(), "best pizza near campus"); err == nil {
		t.Fatalf("off-topic query should miss")
	}
}
