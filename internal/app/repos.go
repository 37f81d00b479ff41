package app

import (
	"gorm.io/gorm"

	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/repos"
)

type Repos struct {
	Profile   repos.UserProfileRepo
	Goal      repos.GoalRepo
	Task      repos.TaskRecordRepo
	Run       repos.GenerationRunRepo
	TaskCache repos.TaskCacheRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Profile:   repos.NewUserProfileRepo(db, log),
		Goal:      repos.NewGoalRepo(db, log),
		Task:      repos.NewTaskRecordRepo(db, log),
		Run:       repos.NewGenerationRunRepo(db, log),
		TaskCache: repos.NewTaskCacheRepo(db, log),
	}
}
