package profile

import (
	"strconv"
	"strings"

	"github.com/pathforge/taskpipe-backend/internal/types"
)

const defaultBudgetAmount = 20000

// ParseBudget turns a free-text budget string ("$25,000", "£15k", "15k-20k",
// "≤£15k") into a numeric amount and a tier. Ranges take the lower bound; a
// trailing "k" multiplies by 1000; unparseable input falls back to 20000.
// Tier boundaries are inclusive-lower for STANDARD: <15000 BUDGET,
// 15000-30000 STANDARD, >30000 PREMIUM.
func ParseBudget(raw string) (int, types.BudgetTier) {
	amount := parseBudgetAmount(raw)
	return amount, BudgetTierFor(amount)
}

func BudgetTierFor(amount int) types.BudgetTier {
	switch {
	case amount < 15000:
		return types.BudgetTierBudget
	case amount <= 30000:
		return types.BudgetTierStandard
	default:
		return types.BudgetTierPremium
	}
}

func parseBudgetAmount(raw string) int {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return defaultBudgetAmount
	}
	for _, sym := range []string{"$", "£", "€", "≤", "≥", "<", ">", "~", ",", " "} {
		s = strings.ReplaceAll(s, sym, "")
	}
	if s == "" {
		return defaultBudgetAmount
	}

	// Ranges like "15k-20k" or "15000-20000" take the lower bound.
	if idx := strings.IndexAny(s, "-–"); idx > 0 {
		s = s[:idx]
	}

	multiplier := 1
	if strings.HasSuffix(s, "k") {
		multiplier = 1000
		s = strings.TrimSuffix(s, "k")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return defaultBudgetAmount
	}
	return int(f) * multiplier
}
