package app

import (
	"github.com/pathforge/taskpipe-backend/internal/handlers"
	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
)

type Handlers struct {
	Profile *handlers.ProfileHandler
	Goal    *handlers.GoalHandler
	Task    *handlers.TaskHandler
}

func wireHandlers(log *logger.Logger, reposet Repos, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Profile: handlers.NewProfileHandler(log, reposet.Profile),
		Goal:    handlers.NewGoalHandler(log, reposet.Goal),
		Task: handlers.NewTaskHandler(
			log,
			services.Orchestrator,
			services.Research,
			reposet.Profile,
			reposet.Goal,
			reposet.Task,
			reposet.Run,
		),
	}
}
