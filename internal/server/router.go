package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pathforge/taskpipe-backend/internal/handlers"
	"github.com/pathforge/taskpipe-backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware *middleware.AuthMiddleware
	ProfileHandler *handlers.ProfileHandler
	GoalHandler    *handlers.GoalHandler
	TaskHandler    *handlers.TaskHandler
	AllowOrigins   []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api/v1")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	{
		api.PUT("/profile", cfg.ProfileHandler.Upsert)
		api.GET("/profile", cfg.ProfileHandler.Get)

		api.POST("/goals", cfg.GoalHandler.Create)
		api.GET("/goals", cfg.GoalHandler.List)

		api.POST("/goals/:goal_id/generate", cfg.TaskHandler.Generate)
		api.POST("/goals/:goal_id/research", cfg.TaskHandler.Research)
		api.GET("/goals/:goal_id/tasks", cfg.TaskHandler.ListByGoal)

		api.GET("/tasks", cfg.TaskHandler.List)
		api.GET("/runs", cfg.TaskHandler.ListRuns)
	}

	return router
}
