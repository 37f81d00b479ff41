package scenario

import (
	"strings"

	"github.com/pathforge/taskpipe-backend/internal/profile"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

// Detect scores 0-100 how well the template library covers this user's
// background and target field, and recommends a generation strategy. The
// result is advisory; the orchestrator uses it for cost control, not
// correctness.
func Detect(ctx *profile.Context) types.CoverageResult {
	background := strings.ToLower(strings.TrimSpace(ctx.Background))
	field := strings.ToLower(strings.TrimSpace(ctx.Field))

	score := 0
	if coveredBackgrounds[background] {
		score += 50
	}
	if fieldCovered(field) {
		score += 40
	}
	if ctx.HasStartupBackground {
		score += 10
	}
	if isEdgeCase(background, field) {
		score -= 30
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return types.CoverageResult{
		Score:      score,
		Tier:       tierFor(score),
		Strategy:   strategyFor(score),
		Background: background,
		Field:      field,
	}
}

func tierFor(score int) types.CoverageTier {
	switch {
	case score >= 80:
		return types.CoverageWellCovered
	case score >= 40:
		return types.CoveragePartiallyCovered
	default:
		return types.CoverageUncovered
	}
}

func strategyFor(score int) types.Strategy {
	switch {
	case score >= 80:
		return types.StrategyTemplates
	case score >= 40:
		return types.StrategyHybrid
	default:
		return types.StrategyFullLLM
	}
}

func fieldCovered(field string) bool {
	if field == "" {
		return false
	}
	tokens := strings.Fields(field)
	for _, covered := range coveredFields {
		if strings.Contains(covered, " ") {
			if strings.Contains(field, covered) {
				return true
			}
			continue
		}
		for _, tok := range tokens {
			if tok == covered {
				return true
			}
		}
	}
	return false
}

func isEdgeCase(background, field string) bool {
	if background == "" || field == "" {
		return false
	}
	tokens := strings.Fields(field)
	for _, pair := range edgeCasePairs {
		if pair.Background != background {
			continue
		}
		if strings.Contains(pair.FieldKeyword, " ") || strings.Contains(pair.FieldKeyword, "-") {
			if strings.Contains(field, pair.FieldKeyword) {
				return true
			}
			continue
		}
		for _, tok := range tokens {
			if tok == pair.FieldKeyword {
				return true
			}
		}
	}
	return false
}
