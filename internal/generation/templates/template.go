package templates

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pathforge/taskpipe-backend/internal/types"
)

// MilestoneType groups templates along a goal journey (one journey per goal
// category, ordered).
type MilestoneType string

const (
	MilestoneUniversityResearch MilestoneType = "university_research"
	MilestoneExamPrep           MilestoneType = "exam_prep"
	MilestoneSOPDrafting        MilestoneType = "sop_drafting"
	MilestoneRecommendations    MilestoneType = "recommendations"
	MilestoneApplications       MilestoneType = "applications"
	MilestoneScholarships       MilestoneType = "scholarships"
	MilestoneVisaProcess        MilestoneType = "visa_process"

	MilestoneLinkedIn      MilestoneType = "linkedin_optimization"
	MilestoneResumeUpdate  MilestoneType = "resume_update"
	MilestoneJobSearch     MilestoneType = "job_search"
	MilestoneNetworking    MilestoneType = "networking"
	MilestoneJobApps       MilestoneType = "job_applications"
	MilestoneInterviewPrep MilestoneType = "interview_prep"
)

// Journey returns the ordered milestone types for a goal category. Categories
// without an authored journey get an empty journey, which routes the
// orchestrator to the LLM paths.
func Journey(category types.GoalCategory) []MilestoneType {
	switch category {
	case types.CategoryStudy:
		return []MilestoneType{
			MilestoneUniversityResearch,
			MilestoneExamPrep,
			MilestoneSOPDrafting,
			MilestoneRecommendations,
			MilestoneApplications,
			MilestoneScholarships,
			MilestoneVisaProcess,
		}
	case types.CategoryCareer:
		return []MilestoneType{
			MilestoneLinkedIn,
			MilestoneResumeUpdate,
			MilestoneJobSearch,
			MilestoneNetworking,
			MilestoneJobApps,
			MilestoneInterviewPrep,
		}
	case types.CategorySport, types.CategoryFinance:
		return nil
	default:
		return nil
	}
}

// Template is a pre-authored task blueprint. Title and Description may carry
// {var} placeholders and [?var]...[/?] conditional blocks resolved against
// the profile context variables.
type Template struct {
	ID            string        `yaml:"id"`
	MilestoneType MilestoneType `yaml:"milestone_type"`

	Title       string `yaml:"title"`
	Description string `yaml:"description"`

	RequiredVars []string `yaml:"required_vars"`

	TimeboxMinutes int            `yaml:"timebox_minutes"`
	Priority       int            `yaml:"priority"`
	TaskType       types.TaskType `yaml:"task_type"`

	BudgetTiers      []types.BudgetTier      `yaml:"budget_tiers,omitempty"`
	ExperienceLevels []types.ExperienceLevel `yaml:"experience_levels,omitempty"`
	WeaknessTags     []string                `yaml:"weakness_tags,omitempty"`

	Urgent bool `yaml:"urgent,omitempty"`
}

// QuickWin marks short templates used for the 40/60 variety mix.
func (t Template) QuickWin() bool { return t.TimeboxMinutes > 0 && t.TimeboxMinutes <= 30 }

var (
	placeholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)
	conditionalRe = regexp.MustCompile(`(?s)\[\?([a-z_]+)\](.*?)\[/\?\]`)
)

// Render substitutes vars into s. Conditional blocks are dropped when their
// var is absent; a remaining unresolved placeholder is a hard error, never a
// silent blank.
func Render(s string, vars map[string]string) (string, error) {
	out := conditionalRe.ReplaceAllStringFunc(s, func(block string) string {
		m := conditionalRe.FindStringSubmatch(block)
		if _, ok := vars[m[1]]; !ok {
			return ""
		}
		return m[2]
	})

	var missing []string
	out = placeholderRe.ReplaceAllStringFunc(out, func(ph string) string {
		name := placeholderRe.FindStringSubmatch(ph)[1]
		val, ok := vars[name]
		if !ok {
			missing = append(missing, name)
			return ph
		}
		return val
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("unresolved template vars: %s", strings.Join(missing, ", "))
	}

	return strings.Join(strings.Fields(out), " "), nil
}

// MissingVars reports which required vars are absent from the context.
func (t Template) MissingVars(vars map[string]string) []string {
	var missing []string
	for _, name := range t.RequiredVars {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

func (t Template) matchesBudget(tier types.BudgetTier) bool {
	if len(t.BudgetTiers) == 0 {
		return true
	}
	for _, bt := range t.BudgetTiers {
		if bt == tier {
			return true
		}
	}
	return false
}

func (t Template) matchesExperience(level types.ExperienceLevel) bool {
	if len(t.ExperienceLevels) == 0 {
		return true
	}
	for _, el := range t.ExperienceLevels {
		if el == level {
			return true
		}
	}
	return false
}

func (t Template) matchesWeakness(weakness string) bool {
	if weakness == "" {
		return false
	}
	for _, tag := range t.WeaknessTags {
		if strings.Contains(weakness, tag) {
			return true
		}
	}
	return false
}
