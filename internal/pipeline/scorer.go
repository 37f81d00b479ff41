package pipeline

import (
	"sort"
	"strings"

	"github.com/pathforge/taskpipe-backend/internal/profile"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

var founderScoreKeywords = []string{"founder", "startup", "venture", "co-founder"}
var gpaScoreKeywords = []string{"gpa", "transcript", "grade", "academic record"}
var essayScoreKeywords = []string{"essay", "sop", "statement of purpose", "personal statement"}

// Score assigns each task its personalization score and sorts the list by
// (score desc, priority desc, scheduled date asc), stable beyond that.
func Score(tasks []types.Task, pctx *profile.Context) []types.Task {
	out := make([]types.Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		out[i].PersonalizationScore = scoreTask(&out[i], pctx)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PersonalizationScore != out[j].PersonalizationScore {
			return out[i].PersonalizationScore > out[j].PersonalizationScore
		}
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].ScheduledDate < out[j].ScheduledDate
	})
	return out
}

func scoreTask(task *types.Task, pctx *profile.Context) int {
	score := 0
	switch task.Source {
	case types.SourceUniqueGenerator:
		score += 25
	case types.SourceCustomGenerator:
		score += 20
	case types.SourceTemplateAgent:
		score += 5
	case types.SourceAtomicGenerator, types.SourceResearchAgent:
		// Scored on content only.
	}

	title := strings.ToLower(task.Title)
	if pctx.HasStartupBackground && containsAny(title, founderScoreKeywords) {
		score += 15
	}
	if pctx.GPANeedsCompensation && containsAny(title, gpaScoreKeywords) {
		score += 15
	}
	if task.Priority >= 4 {
		score += 10
	}
	if containsAny(title, essayScoreKeywords) {
		score += 10
	}
	return score
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
