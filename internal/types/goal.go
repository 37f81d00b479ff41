package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Goal holds what the user wants to achieve. Category is immutable after
// creation; Specifications is a category-shaped map that is never validated
// strictly (absent keys degrade to extractor defaults).
type Goal struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`

	Category    GoalCategory `gorm:"column:category;not null" json:"category"`
	Title       string       `gorm:"column:title;not null" json:"title"`
	Description string       `gorm:"column:description" json:"description"`

	Specifications datatypes.JSON `gorm:"type:jsonb;column:specifications" json:"specifications"`

	Priority   int        `gorm:"column:priority;default:3" json:"priority"`
	StartDate  *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	TargetDate *time.Time `gorm:"column:target_date" json:"target_date,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Goal) TableName() string {
	return "goal"
}
