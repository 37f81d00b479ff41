package templates

import (
	"strings"
	"testing"

	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/profile"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

func TestRenderSubstitutesVars(t *testing.T) {
	out, err := Render("Build a shortlist of 8 universities offering {degree} in {field}",
		map[string]string{"degree": "MSc", "field": "computer science"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "Build a shortlist of 8 universities offering MSc in computer science"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestRenderMissingVarIsError(t *testing.T) {
	_, err := Render("Apply to {university} today", map[string]string{})
	if err == nil {
		t.Fatalf("missing var must be a hard error, not a blank")
	}
}

func TestRenderConditionalBlocks(t *testing.T) {
	tpl := "Outline your statement.[?startup_name] Include the {startup_name} story.[/?]"

	out, err := Render(tpl, map[string]string{"startup_name": "Acme"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "Acme story") {
		t.Fatalf("conditional should expand when var present, got %q", out)
	}

	out, err = Render(tpl, map[string]string{})
	if err != nil {
		t.Fatalf("render without var: %v", err)
	}
	if strings.Contains(out, "story") {
		t.Fatalf("conditional should be dropped when var absent, got %q", out)
	}
}

func TestDoDWeightsSumTo100(t *testing.T) {
	for _, id := range []string{"research_university_shortlist", "sop_outline", "resume_tailor", "reco_request_email", "linkedin_headline", "exam_diagnostic_test", "interview_story_bank", "something_else"} {
		items := DoDFor(id)
		sum := 0
		for _, it := range items {
			sum += it.Weight
		}
		if sum < 95 || sum > 105 {
			t.Fatalf("dod weights for %q sum to %d, want 100±5", id, sum)
		}
	}
}

func TestDeliverableInference(t *testing.T) {
	cases := map[string]types.DeliverableType{
		"research_university_shortlist": types.DeliverableSpreadsheet,
		"sop_outline":                   types.DeliverableDoc,
		"reco_request_email":            types.DeliverableEmail,
		"linkedin_headline":             types.DeliverableLink,
		"jobapp_submit_batch":           types.DeliverableShortlist,
		"visa_financial_docs":           types.DeliverableNote,
	}
	for id, want := range cases {
		if got := DeliverableFor(id); got != want {
			t.Fatalf("DeliverableFor(%q) = %s, want %s", id, got, want)
		}
	}
}

func studyContext() *profile.Context {
	return &profile.Context{
		Category:        types.CategoryStudy,
		Field:           "computer science",
		Degree:          "MSc",
		Background:      "engineer",
		BudgetTier:      types.BudgetTierStandard,
		ExperienceLevel: types.ExperienceMid,
		DaysAhead:       30,
	}
}

func TestGenerateSkipsTemplatesWithMissingVars(t *testing.T) {
	log := logger.NewNop()
	reg := NewRegistry(log)
	gen := NewGenerator(reg, log)

	ctx := studyContext()
	// No target universities, no country: university- and country-bound
	// templates must be skipped, not rendered blank.
	tasks := gen.Generate(ctx, 2, -1)
	if len(tasks) == 0 {
		t.Fatalf("expected tasks from the study journey")
	}
	for _, task := range tasks {
		if strings.Contains(task.Title, "{") {
			t.Fatalf("unresolved placeholder leaked into title: %q", task.Title)
		}
		if task.Source != types.SourceTemplateAgent {
			t.Fatalf("task source = %s, want template_agent", task.Source)
		}
		if task.TimeboxMinutes < 10 || task.TimeboxMinutes > 600 {
			t.Fatalf("timebox out of range: %d", task.TimeboxMinutes)
		}
	}
}

func TestGenerateStampsMilestoneMetadata(t *testing.T) {
	log := logger.NewNop()
	gen := NewGenerator(NewRegistry(log), log)

	tasks := gen.Generate(studyContext(), 2, -1)
	seenTypes := map[string]bool{}
	for _, task := range tasks {
		if task.MilestoneTitle == "" {
			t.Fatalf("task %q missing milestone title", task.Title)
		}
		seenTypes[task.MilestoneTitle] = true
	}
	if len(seenTypes) < 3 {
		t.Fatalf("expected several milestone types, got %d", len(seenTypes))
	}
}

func TestSelectRespectsBudgetTier(t *testing.T) {
	log := logger.NewNop()
	reg := NewRegistry(log)

	ctx := studyContext()
	ctx.BudgetTier = types.BudgetTierPremium
	for _, tpl := range Select(reg, ctx, MilestoneScholarships, 5, -1) {
		if !tpl.matchesBudget(types.BudgetTierPremium) {
			t.Fatalf("template %q does not match premium tier", tpl.ID)
		}
	}
}

func TestSelectPrefersWeaknessMatch(t *testing.T) {
	log := logger.NewNop()
	reg := NewRegistry(log)

	ctx := studyContext()
	ctx.WeaknessKeyword = "essay writing"
	picked := Select(reg, ctx, MilestoneSOPDrafting, 2, -1)
	if len(picked) == 0 {
		t.Fatalf("expected sop templates")
	}
	if !picked[0].matchesWeakness(ctx.WeaknessKeyword) {
		t.Fatalf("first pick %q should match the weakness keyword", picked[0].ID)
	}
}

func TestSelectMixesQuickWins(t *testing.T) {
	log := logger.NewNop()
	reg := NewRegistry(log)

	ctx := studyContext()
	picked := Select(reg, ctx, MilestoneExamPrep, 3, -1)
	quick := 0
	for _, tpl := range picked {
		if tpl.QuickWin() {
			quick++
		}
	}
	if quick == 0 {
		t.Fatalf("expected at least one quick win in a 3-template pick")
	}
	if quick == len(picked) {
		t.Fatalf("expected foundation templates alongside quick wins")
	}
}

func TestJourneyClosedOverCategories(t *testing.T) {
	if len(Journey(types.CategoryStudy)) == 0 {
		t.Fatalf("study journey must exist")
	}
	if len(Journey(types.CategoryCareer)) == 0 {
		t.Fatalf("career journey must exist")
	}
	if Journey(types.CategorySport) != nil {
		t.Fatalf("sport has no authored journey")
	}
}
