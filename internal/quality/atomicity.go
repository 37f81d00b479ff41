package quality

import (
	"regexp"
	"strings"

	"github.com/pathforge/taskpipe-backend/internal/types"
)

const (
	atomicityPassThreshold = 60
	atomicTimeboxMin       = 10
	atomicTimeboxMax       = 90
)

var (
	stepPhaseRe  = regexp.MustCompile(`(?i)\b(step|phase)\s+\d`)
	urlRe        = regexp.MustCompile(`https?://\S+|www\.\S+|\S+\.(com|org|edu|gov|io)\b`)
	multiVerbSep = regexp.MustCompile(`(?i)\b(and|then)\s+(\w+)`)
)

// CheckAtomicity runs the stricter 5-check gate used for two-tier generated
// tasks: single action, atomic timebox, named resource, deliverable signal,
// no meta-task phrasing. Same scoring shape as the validator but with a 60%
// pass threshold.
func CheckAtomicity(task *types.Task) Result {
	checks := []struct {
		Name string
		Pass bool
	}{
		{"single_action", isSingleAction(task)},
		{"atomic_timebox", task.TimeboxMinutes >= atomicTimeboxMin && task.TimeboxMinutes <= atomicTimeboxMax},
		{"named_resource", hasNamedResource(task)},
		{"deliverable_signal", hasDeliverableSignal(task)},
		{"no_meta_phrasing", !hasMetaPhrase(task)},
	}
	return scoreChecks(checks, atomicityPassThreshold, atomicityPassThreshold)
}

// isSingleAction rejects titles that chain a second action verb after
// "and"/"then" or enumerate steps/phases.
func isSingleAction(task *types.Task) bool {
	title := task.Title
	if stepPhaseRe.MatchString(title) {
		return false
	}
	for _, m := range multiVerbSep.FindAllStringSubmatch(title, -1) {
		if actionVerbs[strings.ToLower(m[2])] {
			return false
		}
	}
	return true
}

// hasNamedResource: an explicit resource field, a URL, or a capitalized
// proper noun past the first word of the title.
func hasNamedResource(task *types.Task) bool {
	if strings.TrimSpace(task.SpecificResource) != "" {
		return true
	}
	text := task.Title + " " + task.Description
	if urlRe.MatchString(strings.ToLower(text)) {
		return true
	}
	words := strings.Fields(task.Title)
	for i, w := range words {
		if i == 0 {
			continue
		}
		trimmed := strings.Trim(w, ".,:;!?()\"'")
		if len(trimmed) >= 2 && unicodeUpper(trimmed) {
			return true
		}
	}
	return false
}

func unicodeUpper(w string) bool {
	r := []rune(w)[0]
	return r >= 'A' && r <= 'Z'
}

func hasDeliverableSignal(task *types.Task) bool {
	if task.DeliverableType != "" && task.DeliverableType != types.DeliverableOther {
		return true
	}
	text := task.SearchText()
	for _, sig := range deliverableSignals {
		if strings.Contains(text, sig) {
			return true
		}
	}
	return false
}

func hasMetaPhrase(task *types.Task) bool {
	text := task.SearchText()
	for _, phrase := range metaTaskPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

// IsMetaTask exposes the meta-phrase check for tier-2 candidate screening.
func IsMetaTask(title string) bool {
	t := strings.ToLower(title)
	for _, phrase := range metaTaskPhrases {
		if strings.Contains(t, phrase) {
			return true
		}
	}
	return false
}
