package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserProfile is the raw stored profile. The pipeline never reads it directly;
// the profile extractor flattens it into a ProfileContext first.
type UserProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	FullName     string   `gorm:"column:full_name" json:"full_name"`
	CurrentRole  string   `gorm:"column:current_role" json:"current_role"`
	YearsOfExp   int      `gorm:"column:years_of_exp" json:"years_of_exp"`
	WorkHistory  string   `gorm:"column:work_history" json:"work_history"`
	Achievements string   `gorm:"column:achievements" json:"achievements"`
	StartupName  string   `gorm:"column:startup_name" json:"startup_name"`
	IsFounder    bool     `gorm:"column:is_founder" json:"is_founder"`
	NetworkNotes string   `gorm:"column:network_notes" json:"network_notes"`
	GPA          *float64 `gorm:"column:gpa" json:"gpa,omitempty"`

	CurrentIELTS *float64 `gorm:"column:current_ielts" json:"current_ielts,omitempty"`
	CurrentTOEFL *float64 `gorm:"column:current_toefl" json:"current_toefl,omitempty"`
	CurrentGRE   *float64 `gorm:"column:current_gre" json:"current_gre,omitempty"`

	Extra datatypes.JSON `gorm:"type:jsonb;column:extra" json:"extra,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profile"
}
