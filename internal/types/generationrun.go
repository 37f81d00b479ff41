package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// GenerationRun records one pipeline invocation for a (user, goal) pair:
// which strategy ran, how many candidates each stage kept, and cost.
type GenerationRun struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	GoalID uuid.UUID `gorm:"type:uuid;index;not null" json:"goal_id"`

	Strategy      Strategy `gorm:"column:strategy;not null" json:"strategy"`
	CoverageScore int      `gorm:"column:coverage_score" json:"coverage_score"`

	CandidateCount int `gorm:"column:candidate_count" json:"candidate_count"`
	ValidatedCount int `gorm:"column:validated_count" json:"validated_count"`
	DedupedCount   int `gorm:"column:deduped_count" json:"deduped_count"`
	PersistedCount int `gorm:"column:persisted_count" json:"persisted_count"`
	SkippedCount   int `gorm:"column:skipped_count" json:"skipped_count"`

	CostUSD   float64 `gorm:"column:cost_usd" json:"cost_usd"`
	CacheHit  bool    `gorm:"column:cache_hit" json:"cache_hit"`
	Succeeded bool    `gorm:"column:succeeded" json:"succeeded"`
	Error     string  `gorm:"column:error" json:"error,omitempty"`

	StageCounts datatypes.JSON `gorm:"type:jsonb;column:stage_counts" json:"stage_counts,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (GenerationRun) TableName() string {
	return "generation_run"
}
