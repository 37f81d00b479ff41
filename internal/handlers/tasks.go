package handlers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pathforge/taskpipe-backend/internal/pipeline"
	"github.com/pathforge/taskpipe-backend/internal/platform/apierr"
	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/profile"
	"github.com/pathforge/taskpipe-backend/internal/repos"
	"github.com/pathforge/taskpipe-backend/internal/requestdata"
	"github.com/pathforge/taskpipe-backend/internal/research"
)

type TaskHandler struct {
	log          *logger.Logger
	orchestrator *pipeline.Orchestrator
	researchAgt  *research.Agent
	profileRepo  repos.UserProfileRepo
	goalRepo     repos.GoalRepo
	taskRepo     repos.TaskRecordRepo
	runRepo      repos.GenerationRunRepo
}

func NewTaskHandler(
	log *logger.Logger,
	orchestrator *pipeline.Orchestrator,
	researchAgt *research.Agent,
	profileRepo repos.UserProfileRepo,
	goalRepo repos.GoalRepo,
	taskRepo repos.TaskRecordRepo,
	runRepo repos.GenerationRunRepo,
) *TaskHandler {
	return &TaskHandler{
		log:          log.With("handler", "TaskHandler"),
		orchestrator: orchestrator,
		researchAgt:  researchAgt,
		profileRepo:  profileRepo,
		goalRepo:     goalRepo,
		taskRepo:     taskRepo,
		runRepo:      runRepo,
	}
}

// POST /api/v1/goals/:goal_id/generate
// An empty task list is a valid outcome ("generation failed, try again"),
// reported as 200 with generated=0 rather than an error status.
func (h *TaskHandler) Generate(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, apierr.New(401, "unauthorized", fmt.Errorf("no identity on request")))
		return
	}
	goal, err := ownedGoal(c, h.goalRepo, rd.UserID)
	if err != nil {
		RespondError(c, err)
		return
	}

	prof, err := h.profileRepo.GetByUserID(c.Request.Context(), nil, rd.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		RespondError(c, apierr.Internal("profile_fetch_failed", err))
		return
	}

	res, err := h.orchestrator.Run(c.Request.Context(), prof, goal)
	if err != nil {
		h.log.Error("generation run failed",
			"user_id", rd.UserID.String(), "goal_id", goal.ID.String(), "error", err)
		RespondError(c, apierr.Internal("generation_failed", err))
		return
	}

	RespondOK(c, gin.H{
		"generated":      len(res.Tasks),
		"created":        res.Created,
		"skipped":        res.Skipped,
		"coverage_score": res.Coverage.Score,
		"coverage_tier":  string(res.Coverage.Tier),
		"strategy":       string(res.Coverage.Strategy),
		"cache_hit":      res.CacheHit,
		"cost_usd":       res.CostUSD,
		"tasks":          res.Tasks,
	})
}

// POST /api/v1/goals/:goal_id/research
func (h *TaskHandler) Research(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, apierr.New(401, "unauthorized", fmt.Errorf("no identity on request")))
		return
	}
	goal, err := ownedGoal(c, h.goalRepo, rd.UserID)
	if err != nil {
		RespondError(c, err)
		return
	}

	prof, err := h.profileRepo.GetByUserID(c.Request.Context(), nil, rd.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		RespondError(c, apierr.Internal("profile_fetch_failed", err))
		return
	}

	pctx := profile.Extract(prof, goal)
	tasks := h.researchAgt.Generate(c.Request.Context(), pctx, goal)
	RespondOK(c, gin.H{"generated": len(tasks), "tasks": tasks})
}

// GET /api/v1/tasks
func (h *TaskHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, apierr.New(401, "unauthorized", fmt.Errorf("no identity on request")))
		return
	}
	records, err := h.taskRepo.ListByUser(c.Request.Context(), nil, rd.UserID)
	if err != nil {
		RespondError(c, apierr.Internal("task_list_failed", err))
		return
	}
	RespondOK(c, records)
}

// GET /api/v1/goals/:goal_id/tasks
func (h *TaskHandler) ListByGoal(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, apierr.New(401, "unauthorized", fmt.Errorf("no identity on request")))
		return
	}
	goal, err := ownedGoal(c, h.goalRepo, rd.UserID)
	if err != nil {
		RespondError(c, err)
		return
	}
	records, err := h.taskRepo.ListByGoal(c.Request.Context(), nil, goal.ID)
	if err != nil {
		RespondError(c, apierr.Internal("task_list_failed", err))
		return
	}
	RespondOK(c, records)
}

// GET /api/v1/runs
func (h *TaskHandler) ListRuns(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, apierr.New(401, "unauthorized", fmt.Errorf("no identity on request")))
		return
	}
	runs, err := h.runRepo.ListByUser(c.Request.Context(), nil, rd.UserID, 20)
	if err != nil {
		RespondError(c, apierr.Internal("run_list_failed", err))
		return
	}
	RespondOK(c, runs)
}
