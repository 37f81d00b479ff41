package db

import (
	"gorm.io/gorm"

	"github.com/pathforge/taskpipe-backend/internal/types"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.UserProfile{},
		&types.Goal{},
		&types.TaskRecord{},
		&types.GenerationRun{},
		&types.TaskCacheEntry{},
	)
}
