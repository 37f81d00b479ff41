package app

import (
	"github.com/gin-gonic/gin"

	"github.com/pathforge/taskpipe-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthMiddleware: middlewareset.Auth,
		ProfileHandler: handlerset.Profile,
		GoalHandler:    handlerset.Goal,
		TaskHandler:    handlerset.Task,
		AllowOrigins:   cfg.AllowOrigins,
	})
}
