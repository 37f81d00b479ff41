package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TaskCacheEntry is the durable fallback behind the redis layer for cached
// LLM generations, keyed by (profile feature hash, generation type).
type TaskCacheEntry struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	ProfileHash    string `gorm:"column:profile_hash;index:idx_task_cache_key,unique;not null" json:"profile_hash"`
	GenerationType string `gorm:"column:generation_type;index:idx_task_cache_key,unique;not null" json:"generation_type"`

	Tasks   datatypes.JSON `gorm:"type:jsonb;column:tasks;not null" json:"tasks"`
	CostUSD float64        `gorm:"column:cost_usd" json:"cost_usd"`

	HitCount  int       `gorm:"column:hit_count;default:0" json:"hit_count"`
	ExpiresAt time.Time `gorm:"column:expires_at;index;not null" json:"expires_at"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (TaskCacheEntry) TableName() string {
	return "task_cache_entry"
}
