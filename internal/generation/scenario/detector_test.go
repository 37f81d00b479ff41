package scenario

import (
	"testing"

	"github.com/pathforge/taskpipe-backend/internal/profile"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

func TestFounderComputerScienceWellCovered(t *testing.T) {
	ctx := &profile.Context{
		Background:           "founder",
		Field:                "computer science",
		Category:             types.CategoryStudy,
		HasStartupBackground: true,
	}
	res := Detect(ctx)
	if res.Score < 80 {
		t.Fatalf("score = %d, want >= 80", res.Score)
	}
	if res.Score > 100 {
		t.Fatalf("score must be clamped to 100, got %d", res.Score)
	}
	if res.Tier != types.CoverageWellCovered {
		t.Fatalf("tier = %s, want well_covered", res.Tier)
	}
	if res.Strategy != types.StrategyTemplates {
		t.Fatalf("strategy = %s, want templates", res.Strategy)
	}
}

func TestNurseMedicalAIUncovered(t *testing.T) {
	ctx := &profile.Context{
		Background: "nurse",
		Field:      "medical ai",
	}
	res := Detect(ctx)
	if res.Score > 20 {
		t.Fatalf("score = %d, want <= 20 after edge-case penalty", res.Score)
	}
	if res.Tier != types.CoverageUncovered {
		t.Fatalf("tier = %s, want uncovered", res.Tier)
	}
	if res.Strategy != types.StrategyFullLLM {
		t.Fatalf("strategy = %s, want full_llm", res.Strategy)
	}
}

func TestScoreNeverNegative(t *testing.T) {
	ctx := &profile.Context{Background: "lawyer", Field: "bioethics"}
	res := Detect(ctx)
	if res.Score < 0 {
		t.Fatalf("score must never go below 0, got %d", res.Score)
	}
}

func TestPartialCoverageIsHybrid(t *testing.T) {
	// Covered field only: 40 points.
	ctx := &profile.Context{Background: "chef", Field: "data science"}
	res := Detect(ctx)
	if res.Score != 40 {
		t.Fatalf("score = %d, want 40", res.Score)
	}
	if res.Strategy != types.StrategyHybrid {
		t.Fatalf("strategy = %s, want hybrid", res.Strategy)
	}
}

func TestFieldTokenMatching(t *testing.T) {
	// "ai" must match as a token, not a substring of another word.
	ctx := &profile.Context{Background: "engineer", Field: "aviation maintenance"}
	res := Detect(ctx)
	if res.Score != 50 {
		t.Fatalf("score = %d, want 50 (background only)", res.Score)
	}
}
