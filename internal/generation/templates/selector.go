package templates

import (
	"sort"

	"github.com/pathforge/taskpipe-backend/internal/profile"
)

// Select picks up to perType templates for one milestone type: filter by
// budget tier, prioritize weakness and experience matches, prefer urgent
// templates when the deadline is close, and mix roughly 40% quick wins with
// 60% longer foundation work.
func Select(reg *Registry, ctx *profile.Context, mt MilestoneType, perType int, daysUntilTarget int) []Template {
	if perType <= 0 {
		perType = 2
	}

	candidates := reg.ByMilestoneType(mt)
	filtered := candidates[:0:0]
	for _, t := range candidates {
		if !t.matchesBudget(ctx.BudgetTier) {
			continue
		}
		filtered = append(filtered, t)
	}
	if len(filtered) == 0 {
		return nil
	}

	urgent := daysUntilTarget >= 0 && daysUntilTarget < 30

	rank := func(t Template) int {
		score := 0
		if t.matchesWeakness(ctx.WeaknessKeyword) {
			score += 40
		}
		if t.matchesExperience(ctx.ExperienceLevel) {
			score += 20
		}
		if urgent && (t.Urgent || t.QuickWin()) {
			score += 30
		}
		score += t.Priority * 2
		return score
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return rank(filtered[i]) > rank(filtered[j])
	})

	if perType >= len(filtered) {
		return filtered
	}

	// 40/60 quick-win to foundation mix, foundation first when only one slot.
	quickSlots := (perType*2 + 2) / 5
	picked := make([]Template, 0, perType)
	seen := map[string]bool{}

	take := func(want func(Template) bool, n int) {
		for _, t := range filtered {
			if n <= 0 {
				return
			}
			if seen[t.ID] || !want(t) {
				continue
			}
			picked = append(picked, t)
			seen[t.ID] = true
			n--
		}
	}
	take(func(t Template) bool { return !t.QuickWin() }, perType-quickSlots)
	take(func(t Template) bool { return t.QuickWin() }, quickSlots)
	// Backfill from the ranked list if either bucket ran dry.
	take(func(Template) bool { return true }, perType-len(picked))

	return picked
}
