package quality

import (
	"strings"
	"unicode"

	"github.com/pathforge/taskpipe-backend/internal/profile"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

// Result of a rule-based check run: which named checks passed, the 0-100
// score, and the two gate decisions.
type Result struct {
	Passed []string
	Failed []string
	Score  int

	Valid      bool // score >= pass threshold
	HardReject bool // score < hard-reject threshold, drop without repair
}

const (
	validatorPassThreshold   = 80
	validatorRejectThreshold = 60
)

// Validate runs the 5 fast rule checks, each worth 20 points. Pass at 80
// (4/5); below 60 the task is hard-rejected.
func Validate(task *types.Task, pctx *profile.Context) Result {
	checks := []struct {
		Name string
		Pass bool
	}{
		{"has_user_context", hasUserContext(task, pctx)},
		{"is_specific", isSpecific(task)},
		{"is_actionable", isActionable(task)},
		{"has_realistic_timebox", hasRealisticTimebox(task)},
		{"not_generic", notGeneric(task)},
	}
	return scoreChecks(checks, validatorPassThreshold, validatorRejectThreshold)
}

func scoreChecks(checks []struct {
	Name string
	Pass bool
}, passAt, rejectBelow int) Result {
	res := Result{}
	for _, c := range checks {
		if c.Pass {
			res.Passed = append(res.Passed, c.Name)
		} else {
			res.Failed = append(res.Failed, c.Name)
		}
	}
	res.Score = len(res.Passed) * 100 / len(checks)
	res.Valid = res.Score >= passAt
	res.HardReject = res.Score < rejectBelow
	return res
}

// hasUserContext: the task references something from this user's context, or
// carries a number in a reasonably long string. Custom and unique sources
// are contextual by construction.
func hasUserContext(task *types.Task, pctx *profile.Context) bool {
	switch task.Source {
	case types.SourceCustomGenerator, types.SourceUniqueGenerator:
		return true
	}

	text := task.SearchText()
	if pctx != nil {
		for _, uni := range pctx.TargetUniversities {
			if uni != "" && strings.Contains(text, strings.ToLower(uni)) {
				return true
			}
		}
		if pctx.Field != "" && strings.Contains(text, pctx.Field) {
			return true
		}
		if pctx.StartupName != "" && strings.Contains(text, strings.ToLower(pctx.StartupName)) {
			return true
		}
		if pctx.TargetRole != "" && strings.Contains(text, strings.ToLower(pctx.TargetRole)) {
			return true
		}
	}

	if len(text) >= 30 {
		for _, r := range text {
			if unicode.IsDigit(r) {
				return true
			}
		}
	}
	return false
}

func isSpecific(task *types.Task) bool {
	title := strings.ToLower(task.Title)
	if len(task.Title) < 20 {
		return false
	}
	for _, phrase := range vaguePhrases {
		if strings.Contains(title, phrase) {
			return false
		}
	}
	return true
}

// isActionable: one of the first 3 words is a recognized action verb, and no
// weak verb leads the title.
func isActionable(task *types.Task) bool {
	words := strings.Fields(strings.ToLower(task.Title))
	if len(words) == 0 {
		return false
	}
	limit := 3
	if len(words) < limit {
		limit = len(words)
	}
	hasAction := false
	for _, w := range words[:limit] {
		w = strings.Trim(w, ".,:;!?")
		if weakVerbs[w] {
			return false
		}
		if actionVerbs[w] {
			hasAction = true
		}
	}
	return hasAction
}

func hasRealisticTimebox(task *types.Task) bool {
	return task.TimeboxMinutes > 0 && task.TimeboxMinutes <= 600
}

func notGeneric(task *types.Task) bool {
	text := task.SearchText()
	for _, phrase := range genericPhrases {
		if strings.Contains(text, phrase) {
			return false
		}
	}
	// Bare bracketed placeholders, minus the whitelist.
	rest := text
	for _, ok := range placeholderWhitelist {
		rest = strings.ReplaceAll(rest, ok, "")
	}
	if open := strings.IndexByte(rest, '['); open >= 0 && strings.IndexByte(rest[open:], ']') > 0 {
		return false
	}
	return true
}

// FilterValid validates a batch and drops hard rejects (score < 60). Tasks in
// the 60-79 band survive this layer; the LLM verifier is their second gate.
// The score is annotated on every survivor.
func FilterValid(tasks []types.Task, pctx *profile.Context) []types.Task {
	out := tasks[:0:0]
	for _, task := range tasks {
		res := Validate(&task, pctx)
		if res.HardReject {
			continue
		}
		task.ValidationScore = res.Score
		out = append(out, task)
	}
	return out
}
