package pipeline

import (
	"strings"

	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/profile"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

var testPrepTaskKeywords = []string{"ielts", "toefl", "gre", "practice test", "diagnostic"}

// SmartFilter drops tasks the profile makes pointless: test-prep work when no
// test needs improving, and the generic LinkedIn template when a founder-
// specific LinkedIn task from the custom branch is already in the batch.
func SmartFilter(tasks []types.Task, pctx *profile.Context, log *logger.Logger) []types.Task {
	hasCustomLinkedIn := false
	for _, task := range tasks {
		if task.Source == types.SourceCustomGenerator &&
			strings.Contains(strings.ToLower(task.Title), "linkedin") {
			hasCustomLinkedIn = true
			break
		}
	}

	out := tasks[:0:0]
	for _, task := range tasks {
		title := strings.ToLower(task.Title)

		if !pctx.TestPrepNeeded.Any() &&
			task.Source != types.SourceCustomGenerator &&
			containsAny(title, testPrepTaskKeywords) {
			log.Debug("filtering test-prep task, no test needs improving", "title", task.Title)
			continue
		}

		if hasCustomLinkedIn &&
			task.Source == types.SourceTemplateAgent &&
			strings.Contains(title, "linkedin") {
			log.Debug("filtering generic linkedin template, founder-specific task present", "title", task.Title)
			continue
		}

		out = append(out, task)
	}
	return out
}
