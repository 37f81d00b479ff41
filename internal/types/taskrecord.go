package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TaskRecord is the persisted form of a pipeline-surviving Task.
// IdempotencyKey has the shape "{user_id}_{scheduled_date}_{title[:50]}";
// inserting a second record with the same key is a no-op, not an error.
type TaskRecord struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	GoalID uuid.UUID `gorm:"type:uuid;index" json:"goal_id"`

	IdempotencyKey string `gorm:"column:idempotency_key;uniqueIndex;not null" json:"idempotency_key"`

	Title           string          `gorm:"column:title;not null" json:"title"`
	Description     string          `gorm:"column:description" json:"description"`
	TaskType        TaskType        `gorm:"column:task_type;not null" json:"task_type"`
	TimeboxMinutes  int             `gorm:"column:timebox_minutes;not null" json:"timebox_minutes"`
	Priority        int             `gorm:"column:priority;not null" json:"priority"`
	DeliverableType DeliverableType `gorm:"column:deliverable_type;not null" json:"deliverable_type"`

	DefinitionOfDone datatypes.JSON `gorm:"type:jsonb;column:definition_of_done" json:"definition_of_done"`
	Constraints      datatypes.JSON `gorm:"type:jsonb;column:constraints" json:"constraints,omitempty"`

	ScheduledDate string     `gorm:"column:scheduled_date;index;not null" json:"scheduled_date"`
	Source        TaskSource `gorm:"column:source;not null" json:"source"`

	MilestoneTitle string `gorm:"column:milestone_title" json:"milestone_title,omitempty"`
	MilestoneIndex int    `gorm:"column:milestone_index" json:"milestone_index,omitempty"`

	SpecificResource     string `gorm:"column:specific_resource" json:"specific_resource,omitempty"`
	PersonalizationScore int    `gorm:"column:personalization_score" json:"personalization_score"`
	ValidationScore      int    `gorm:"column:validation_score" json:"validation_score"`
	Enriched             bool   `gorm:"column:enriched" json:"enriched"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (TaskRecord) TableName() string {
	return "task_record"
}
