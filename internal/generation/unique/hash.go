package unique

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pathforge/taskpipe-backend/internal/profile"
)

// FeatureHash computes the stable cache key from the structural subset of
// the context: category, background, field, tier and boolean flags. Names,
// scores, and anything else that varies per individual is deliberately
// excluded so structurally similar users share cached generations.
func FeatureHash(ctx *profile.Context) string {
	parts := []string{
		string(ctx.Category),
		ctx.Background,
		ctx.Field,
		string(ctx.BudgetTier),
		string(ctx.ExperienceLevel),
		flag(ctx.HasStartupBackground),
		flag(ctx.HasNotableAchievements),
		flag(ctx.GPANeedsCompensation),
		flag(ctx.TestPrepNeeded.IELTS),
		flag(ctx.TestPrepNeeded.TOEFL),
		flag(ctx.TestPrepNeeded.GRE),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])[:16]
}

func flag(b bool) string {
	return fmt.Sprintf("%t", b)
}
