package pipeline

import (
	"time"

	"github.com/pathforge/taskpipe-backend/internal/types"
)

const (
	milestoneSpacingDays = 14
	intraMilestoneDays   = 2
	templateBatchStride  = 2
)

// Schedule assigns a date to every task. Two-tier tasks spread by milestone
// (14 days apart) with a 2-day intra-milestone stagger; everything else
// staggers one day per two tasks. Dates are clamped to [today, today +
// daysAhead]. Deterministic for identical input order and "today".
func Schedule(tasks []types.Task, today time.Time, daysAhead int) []types.Task {
	if daysAhead < 1 {
		daysAhead = 1
	}
	today = today.Truncate(24 * time.Hour)

	out := make([]types.Task, len(tasks))
	copy(out, tasks)

	templateIdx := 0
	milestoneTaskIdx := map[int]int{}

	for i := range out {
		var offset int
		if out[i].Source == types.SourceAtomicGenerator {
			within := milestoneTaskIdx[out[i].MilestoneIndex]
			milestoneTaskIdx[out[i].MilestoneIndex] = within + 1
			offset = out[i].MilestoneIndex*milestoneSpacingDays + within*intraMilestoneDays
		} else {
			offset = templateIdx / templateBatchStride
			templateIdx++
		}

		if offset < 0 {
			offset = 0
		}
		if offset > daysAhead {
			offset = daysAhead
		}
		out[i].ScheduledDate = today.AddDate(0, 0, offset).Format("2006-01-02")
	}
	return out
}
