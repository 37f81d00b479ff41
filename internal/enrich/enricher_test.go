package enrich

import (
	"strings"
	"testing"

	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/profile"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

func TestUniversityResearchEnrichment(t *testing.T) {
	e := NewEnricher(logger.NewNop())
	tasks := []types.Task{{
		Title:       "List admission requirements for MIT graduate programs",
		Description: "Record test scores and the document checklist.",
	}}
	out := e.EnrichAll(&profile.Context{}, tasks)
	if !out[0].Enriched {
		t.Fatalf("task should be enriched")
	}
	if out[0].SpecificResource != "https://gradadmissions.mit.edu" {
		t.Fatalf("resource = %q", out[0].SpecificResource)
	}
	if !strings.Contains(out[0].Description, "gradadmissions.mit.edu") {
		t.Fatalf("admissions URL should be appended to the description")
	}
}

func TestProfessorContactEnrichment(t *testing.T) {
	e := NewEnricher(logger.NewNop())
	tasks := []types.Task{{
		Title:       "Email a professor at Stanford about research openings",
		Description: "",
	}}
	out := e.EnrichAll(&profile.Context{}, tasks)
	if !out[0].Enriched {
		t.Fatalf("professor task should be enriched")
	}
	if !strings.Contains(out[0].Description, "Fei-Fei Li") {
		t.Fatalf("faculty examples should be appended, got %q", out[0].Description)
	}
}

func TestCompanyEnrichment(t *testing.T) {
	e := NewEnricher(logger.NewNop())
	tasks := []types.Task{{
		Title: "Apply to the open role at Stripe this week",
	}}
	out := e.EnrichAll(&profile.Context{}, tasks)
	if out[0].SpecificResource != "https://stripe.com/jobs" {
		t.Fatalf("resource = %q", out[0].SpecificResource)
	}
}

func TestNoMatchPassesThroughUnmodified(t *testing.T) {
	e := NewEnricher(logger.NewNop())
	original := types.Task{
		Title:       "Drill 20 GRE quant problems from your weakest topic",
		Description: "Review every miss before closing the session.",
	}
	out := e.EnrichAll(&profile.Context{}, []types.Task{original})
	if out[0].Enriched {
		t.Fatalf("no-intent task must not be marked enriched")
	}
	if out[0].Title != original.Title || out[0].Description != original.Description {
		t.Fatalf("no-match task must pass through unmodified")
	}
}

func TestTargetUniversityFallback(t *testing.T) {
	e := NewEnricher(logger.NewNop())
	pctx := &profile.Context{TargetUniversities: []string{"Oxford"}}
	tasks := []types.Task{{
		Title: "Check the application deadline for your shortlisted university",
	}}
	out := e.EnrichAll(pctx, tasks)
	if !out[0].Enriched {
		t.Fatalf("deadline task should enrich from the target university")
	}
	if out[0].SpecificResource != "https://www.ox.ac.uk/admissions/graduate" {
		t.Fatalf("resource = %q", out[0].SpecificResource)
	}
}
