package quality

import (
	"context"
	"errors"
	"testing"

	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

// stubLLM scripts GenerateJSON responses in call order.
type stubLLM struct {
	responses []map[string]any
	errs      []error
	calls     int
}

func (s *stubLLM) GenerateText(ctx context.Context, system, user string) (string, error) {
	return "", errors.New("not used")
}

func (s *stubLLM) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	idx := s.calls
	s.calls++
	if idx < len(s.errs) && s.errs[idx] != nil {
		return nil, s.errs[idx]
	}
	if idx < len(s.responses) {
		return s.responses[idx], nil
	}
	return nil, errors.New("stub exhausted")
}

func atomicTask(title string) types.Task {
	return types.Task{
		Title:          title,
		TimeboxMinutes: 30,
		Source:         types.SourceAtomicGenerator,
	}
}

func TestVerifyPassKeepsTask(t *testing.T) {
	stub := &stubLLM{responses: []map[string]any{
		{"passed": true, "issues": []any{}},
	}}
	v := NewVerifier(stub, logger.NewNop())

	out := v.VerifyAndFix(context.Background(), types.UserStories{}, []types.Task{atomicTask("Email Professor Smith about openings")})
	if len(out) != 1 {
		t.Fatalf("passing task must be kept, got %d", len(out))
	}
	if stub.calls != 1 {
		t.Fatalf("want 1 llm call, got %d", stub.calls)
	}
}

func TestVerifyFailThenFixThenPass(t *testing.T) {
	stub := &stubLLM{responses: []map[string]any{
		{"passed": false, "issues": []any{"too vague"}},
		{"title": "Email Professor Jane Smith about the robotics lab opening", "description": "Attach CV", "timebox_minutes": float64(25), "specific_resource": "https://lab.example.edu"},
		{"passed": true, "issues": []any{}},
	}}
	v := NewVerifier(stub, logger.NewNop())

	out := v.VerifyAndFix(context.Background(), types.UserStories{Work: "built a robotics startup"}, []types.Task{atomicTask("Email a professor")})
	if len(out) != 1 {
		t.Fatalf("fixed task must be kept, got %d", len(out))
	}
	if out[0].Title != "Email Professor Jane Smith about the robotics lab opening" {
		t.Fatalf("fix was not applied, title = %q", out[0].Title)
	}
	if out[0].TimeboxMinutes != 25 {
		t.Fatalf("fixed timebox not applied, got %d", out[0].TimeboxMinutes)
	}
}

func TestVerifyFailTwiceDropsTask(t *testing.T) {
	stub := &stubLLM{responses: []map[string]any{
		{"passed": false, "issues": []any{"too vague"}},
		{"title": "Still a vague task title here", "description": "", "timebox_minutes": float64(30), "specific_resource": ""},
		{"passed": false, "issues": []any{"still vague"}},
	}}
	v := NewVerifier(stub, logger.NewNop())

	out := v.VerifyAndFix(context.Background(), types.UserStories{}, []types.Task{atomicTask("Do a thing")})
	if len(out) != 0 {
		t.Fatalf("task failing re-verification must be dropped, got %d", len(out))
	}
	if stub.calls != 3 {
		t.Fatalf("exactly one repair attempt allowed, want 3 calls, got %d", stub.calls)
	}
}

func TestTransportFailureFailsOpen(t *testing.T) {
	stub := &stubLLM{errs: []error{errors.New("connection refused")}}
	v := NewVerifier(stub, logger.NewNop())

	out := v.VerifyAndFix(context.Background(), types.UserStories{}, []types.Task{atomicTask("Email Professor Smith about openings")})
	if len(out) != 1 {
		t.Fatalf("transport failure must accept the task provisionally")
	}
}
