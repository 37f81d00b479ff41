package pipeline

import (
	"sort"
	"strings"

	"github.com/pathforge/taskpipe-backend/internal/types"
)

// Titles at or above this similarity are duplicates.
const dedupThreshold = 0.85

// Dedup collapses near-duplicate titles across generator sources. Candidates
// are ordered by source rank (templates, custom, atomic, research, unique)
// before the pairwise pass, so the first-seen survivor is always the
// higher-priority source. Naive O(n^2) is fine at tens of tasks.
func Dedup(tasks []types.Task) []types.Task {
	ordered := make([]types.Task, len(tasks))
	copy(ordered, tasks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return types.SourceRank(ordered[i].Source) < types.SourceRank(ordered[j].Source)
	})

	var kept []types.Task
	for _, candidate := range ordered {
		dup := false
		for i := range kept {
			if TitleSimilarity(candidate.Title, kept[i].Title) >= dedupThreshold {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, candidate)
		}
	}
	return kept
}

// TitleSimilarity is a normalized, case-insensitive edit-distance ratio in
// [0,1]. 1 means identical after normalization.
func TitleSimilarity(a, b string) float64 {
	na, nb := normalizeTitle(a), normalizeTitle(b)
	if na == nb {
		return 1
	}
	if na == "" || nb == "" {
		return 0
	}
	dist := levenshtein(na, nb)
	max := len(na)
	if len(nb) > max {
		max = len(nb)
	}
	return 1 - float64(dist)/float64(max)
}

func normalizeTitle(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
