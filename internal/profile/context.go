package profile

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pathforge/taskpipe-backend/internal/types"
)

// TestPrepNeeds marks which language/admission tests still need improvement.
// A test with no current score on file is not-yet-determined, not "needed".
type TestPrepNeeds struct {
	IELTS bool
	TOEFL bool
	GRE   bool
}

func (n TestPrepNeeds) Any() bool { return n.IELTS || n.TOEFL || n.GRE }

// Context is the flat, read-only view of (profile, goal) that every
// downstream generator and validator consumes. Built once per request.
type Context struct {
	UserID   uuid.UUID
	GoalID   uuid.UUID
	Category types.GoalCategory

	FullName    string
	CurrentRole string
	Field       string
	Background  string

	YearsOfExperience int
	ExperienceLevel   types.ExperienceLevel

	Degree             string
	TargetRole         string
	TargetCountry      string
	TargetUniversities []string

	StartupName            string
	HasStartupBackground   bool
	HasNotableAchievements bool

	GPA                  *float64
	GPANeedsCompensation bool

	TestPrepNeeded TestPrepNeeds
	TargetIELTS    float64
	TargetTOEFL    float64
	TargetGRE      float64

	BudgetRaw    string
	BudgetAmount int
	BudgetTier   types.BudgetTier

	WeaknessKeyword string
	DaysAhead       int
	Today           time.Time
}

// Extract builds the Context from the stored profile and goal. It never
// errors on missing optional fields; every accessor has a default.
func Extract(p *types.UserProfile, g *types.Goal) *Context {
	return ExtractAt(p, g, time.Now().UTC())
}

func ExtractAt(p *types.UserProfile, g *types.Goal, today time.Time) *Context {
	specs := decodeSpecs(g)

	ctx := &Context{
		UserID:   g.UserID,
		GoalID:   g.ID,
		Category: g.Category,
		Today:    today.Truncate(24 * time.Hour),
	}

	if p != nil {
		ctx.FullName = strings.TrimSpace(p.FullName)
		ctx.CurrentRole = strings.TrimSpace(p.CurrentRole)
		ctx.YearsOfExperience = p.YearsOfExp
		ctx.StartupName = strings.TrimSpace(p.StartupName)
		ctx.HasStartupBackground = p.IsFounder || ctx.StartupName != ""
		ctx.HasNotableAchievements = strings.TrimSpace(p.Achievements) != ""
		ctx.GPA = p.GPA
		ctx.Background = InferBackground(p.IsFounder, p.CurrentRole, p.WorkHistory)
	} else {
		ctx.Background = "general"
	}

	ctx.ExperienceLevel = experienceLevelFor(ctx.YearsOfExperience)

	ctx.Field = strings.ToLower(specString(specs, "field", ""))
	ctx.Degree = specString(specs, "degree", "")
	ctx.TargetRole = specString(specs, "target_role", "")
	ctx.TargetCountry = specString(specs, "country", "")
	ctx.TargetUniversities = specStringList(specs, "target_universities")
	ctx.WeaknessKeyword = strings.ToLower(specString(specs, "weakness", ""))

	ctx.BudgetRaw = specString(specs, "budget", "")
	ctx.BudgetAmount, ctx.BudgetTier = ParseBudget(ctx.BudgetRaw)

	ctx.DaysAhead = specInt(specs, "days_ahead", 30)
	if ctx.DaysAhead < 1 {
		ctx.DaysAhead = 1
	}

	// gpa_needs_compensation: low GPA only matters when there is something
	// concrete to compensate with.
	if ctx.GPA != nil && *ctx.GPA < 3.5 && (ctx.HasStartupBackground || ctx.HasNotableAchievements) {
		ctx.GPANeedsCompensation = true
	}

	ctx.TargetIELTS = specFloat(specs, "target_ielts", 0)
	ctx.TargetTOEFL = specFloat(specs, "target_toefl", 0)
	ctx.TargetGRE = specFloat(specs, "target_gre", 0)
	if p != nil {
		ctx.TestPrepNeeded = TestPrepNeeds{
			IELTS: prepNeeded(p.CurrentIELTS, ctx.TargetIELTS),
			TOEFL: prepNeeded(p.CurrentTOEFL, ctx.TargetTOEFL),
			GRE:   prepNeeded(p.CurrentGRE, ctx.TargetGRE),
		}
	}

	return ctx
}

// prepNeeded: a known current score below the target. No score on file means
// we cannot claim prep is needed.
func prepNeeded(current *float64, target float64) bool {
	if current == nil || target <= 0 {
		return false
	}
	return *current > 0 && *current < target
}

func experienceLevelFor(years int) types.ExperienceLevel {
	switch {
	case years <= 2:
		return types.ExperienceEntry
	case years <= 7:
		return types.ExperienceMid
	default:
		return types.ExperienceSenior
	}
}

// PrimaryUniversity is the first target university, or "" when none is set.
func (c *Context) PrimaryUniversity() string {
	if len(c.TargetUniversities) == 0 {
		return ""
	}
	return c.TargetUniversities[0]
}

// DaysUntilTarget reports days between today and the goal target date, or -1
// when the goal has no target date.
func DaysUntilTarget(g *types.Goal, today time.Time) int {
	if g == nil || g.TargetDate == nil {
		return -1
	}
	d := int(g.TargetDate.Sub(today).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// Vars flattens the context into the variable map consumed by template
// rendering. Only non-empty values are emitted so that templates with a
// missing required variable fail loudly instead of rendering blanks.
func (c *Context) Vars() map[string]string {
	vars := map[string]string{}
	put := func(key, val string) {
		if strings.TrimSpace(val) != "" {
			vars[key] = val
		}
	}
	put("full_name", c.FullName)
	put("current_role", c.CurrentRole)
	put("field", c.Field)
	put("background", c.Background)
	put("degree", c.Degree)
	put("target_role", c.TargetRole)
	put("country", c.TargetCountry)
	put("university", c.PrimaryUniversity())
	put("startup_name", c.StartupName)
	put("budget_tier", string(c.BudgetTier))
	put("experience_level", string(c.ExperienceLevel))
	if len(c.TargetUniversities) > 0 {
		put("universities", strings.Join(c.TargetUniversities, ", "))
	}
	if c.GPA != nil {
		put("gpa", fmt.Sprintf("%.2f", *c.GPA))
	}
	return vars
}

func decodeSpecs(g *types.Goal) map[string]any {
	out := map[string]any{}
	if g == nil || len(g.Specifications) == 0 {
		return out
	}
	if err := json.Unmarshal(g.Specifications, &out); err != nil {
		return map[string]any{}
	}
	return out
}

func specString(specs map[string]any, key, def string) string {
	v, ok := specs[key]
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return def
	}
	return strings.TrimSpace(s)
}

func specStringList(specs map[string]any, key string) []string {
	v, ok := specs[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func specInt(specs map[string]any, key string, def int) int {
	v, ok := specs[key]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case string:
		var parsed int
		if _, err := fmt.Sscanf(strings.TrimSpace(t), "%d", &parsed); err == nil {
			return parsed
		}
	}
	return def
}

func specFloat(specs map[string]any, key string, def float64) float64 {
	v, ok := specs[key]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		var parsed float64
		if _, err := fmt.Sscanf(strings.TrimSpace(t), "%f", &parsed); err == nil {
			return parsed
		}
	}
	return def
}
