package profile

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/pathforge/taskpipe-backend/internal/types"
)

func f64(v float64) *float64 { return &v }

func testGoal(specs string) *types.Goal {
	return &types.Goal{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Category:       types.CategoryStudy,
		Title:          "Masters in CS",
		Specifications: datatypes.JSON([]byte(specs)),
	}
}

func TestTestPrepNeeded(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	p := &types.UserProfile{CurrentIELTS: f64(7.5)}
	ctx := ExtractAt(p, testGoal(`{"target_ielts": 7.0}`), today)
	if ctx.TestPrepNeeded.IELTS {
		t.Fatalf("ielts prep should not be needed when current 7.5 exceeds target 7.0")
	}

	p = &types.UserProfile{CurrentIELTS: f64(6.0)}
	ctx = ExtractAt(p, testGoal(`{"target_ielts": 7.0}`), today)
	if !ctx.TestPrepNeeded.IELTS {
		t.Fatalf("ielts prep should be needed when current 6.0 is below target 7.0")
	}

	// No current score on file: prep is not-yet-determined, never "needed".
	p = &types.UserProfile{}
	ctx = ExtractAt(p, testGoal(`{"target_ielts": 7.0}`), today)
	if ctx.TestPrepNeeded.IELTS {
		t.Fatalf("ielts prep must not be flagged without a current score")
	}
}

func TestParseBudget(t *testing.T) {
	cases := []struct {
		raw        string
		wantAmount int
		wantTier   types.BudgetTier
	}{
		{"$10,000", 10000, types.BudgetTierBudget},
		{"≤£15k", 15000, types.BudgetTierStandard},
		{"£15k", 15000, types.BudgetTierStandard},
		{"15k-20k", 15000, types.BudgetTierStandard},
		{"$30,000", 30000, types.BudgetTierStandard},
		{"€45k", 45000, types.BudgetTierPremium},
		{"", 20000, types.BudgetTierStandard},
		{"no idea", 20000, types.BudgetTierStandard},
	}
	for _, tc := range cases {
		amount, tier := ParseBudget(tc.raw)
		require.Equalf(t, tc.wantAmount, amount, "ParseBudget(%q) amount", tc.raw)
		require.Equalf(t, tc.wantTier, tier, "ParseBudget(%q) tier", tc.raw)
	}
}

func TestGPACompensation(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	p := &types.UserProfile{GPA: f64(3.2), IsFounder: true}
	ctx := ExtractAt(p, testGoal(`{}`), today)
	if !ctx.GPANeedsCompensation {
		t.Fatalf("low gpa with founder background should need compensation")
	}

	p = &types.UserProfile{GPA: f64(3.2)}
	ctx = ExtractAt(p, testGoal(`{}`), today)
	if ctx.GPANeedsCompensation {
		t.Fatalf("low gpa with nothing to compensate with should not be flagged")
	}

	p = &types.UserProfile{GPA: f64(3.8), IsFounder: true}
	ctx = ExtractAt(p, testGoal(`{}`), today)
	if ctx.GPANeedsCompensation {
		t.Fatalf("gpa 3.8 should not need compensation")
	}

	p = &types.UserProfile{IsFounder: true}
	ctx = ExtractAt(p, testGoal(`{}`), today)
	if ctx.GPANeedsCompensation {
		t.Fatalf("missing gpa must not be flagged")
	}
}

func TestInferBackground(t *testing.T) {
	if got := InferBackground(true, "barista", ""); got != "founder" {
		t.Fatalf("founder flag should win, got %q", got)
	}
	if got := InferBackground(false, "Senior Software Engineer", ""); got != "engineer" {
		t.Fatalf("want engineer, got %q", got)
	}
	if got := InferBackground(false, "", "worked as a registered nurse for 4 years"); got != "nurse" {
		t.Fatalf("want nurse, got %q", got)
	}
	if got := InferBackground(false, "", ""); got != "general" {
		t.Fatalf("want general, got %q", got)
	}
}

func TestExperienceLevel(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, tc := range []struct {
		years int
		want  types.ExperienceLevel
	}{
		{0, types.ExperienceEntry},
		{2, types.ExperienceEntry},
		{3, types.ExperienceMid},
		{7, types.ExperienceMid},
		{8, types.ExperienceSenior},
	} {
		ctx := ExtractAt(&types.UserProfile{YearsOfExp: tc.years}, testGoal(`{}`), today)
		require.Equalf(t, tc.want, ctx.ExperienceLevel, "years %d", tc.years)
	}
}

func TestVarsOmitsEmpty(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	ctx := ExtractAt(&types.UserProfile{FullName: "Ada"}, testGoal(`{"field": "Computer Science"}`), today)
	vars := ctx.Vars()
	if vars["full_name"] != "Ada" {
		t.Fatalf("full_name missing from vars")
	}
	if vars["field"] != "computer science" {
		t.Fatalf("field should be lowercased, got %q", vars["field"])
	}
	if _, ok := vars["university"]; ok {
		t.Fatalf("university must be absent when no targets are set")
	}
}
