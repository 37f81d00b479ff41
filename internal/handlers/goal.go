package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pathforge/taskpipe-backend/internal/platform/apierr"
	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/repos"
	"github.com/pathforge/taskpipe-backend/internal/requestdata"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

type GoalHandler struct {
	log      *logger.Logger
	goalRepo repos.GoalRepo
}

func NewGoalHandler(log *logger.Logger, goalRepo repos.GoalRepo) *GoalHandler {
	return &GoalHandler{
		log:      log.With("handler", "GoalHandler"),
		goalRepo: goalRepo,
	}
}

// POST /api/v1/goals
func (h *GoalHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, apierr.New(401, "unauthorized", fmt.Errorf("no identity on request")))
		return
	}

	var goal types.Goal
	if err := c.ShouldBindJSON(&goal); err != nil {
		RespondError(c, apierr.BadRequest("invalid_goal", err))
		return
	}
	if _, err := types.ParseGoalCategory(string(goal.Category)); err != nil {
		RespondError(c, apierr.BadRequest("invalid_category", err))
		return
	}
	if goal.Title == "" {
		RespondError(c, apierr.BadRequest("missing_title", fmt.Errorf("goal title is required")))
		return
	}
	goal.UserID = rd.UserID

	created, err := h.goalRepo.Create(c.Request.Context(), nil, &goal)
	if err != nil {
		h.log.Error("goal create failed", "user_id", rd.UserID.String(), "error", err)
		RespondError(c, apierr.Internal("goal_create_failed", err))
		return
	}
	RespondCreated(c, created)
}

// GET /api/v1/goals
func (h *GoalHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, apierr.New(401, "unauthorized", fmt.Errorf("no identity on request")))
		return
	}

	goals, err := h.goalRepo.ListByUser(c.Request.Context(), nil, rd.UserID)
	if err != nil {
		RespondError(c, apierr.Internal("goal_list_failed", err))
		return
	}
	RespondOK(c, goals)
}

// ownedGoal loads the goal from the :goal_id path param and checks ownership.
func ownedGoal(c *gin.Context, goalRepo repos.GoalRepo, userID uuid.UUID) (*types.Goal, error) {
	goalID, err := uuid.Parse(c.Param("goal_id"))
	if err != nil {
		return nil, apierr.BadRequest("invalid_goal_id", err)
	}
	goal, err := goalRepo.GetByID(c.Request.Context(), nil, goalID)
	if err != nil {
		return nil, apierr.NotFound("goal_not_found", err)
	}
	if goal.UserID != userID {
		return nil, apierr.NotFound("goal_not_found", fmt.Errorf("goal %s not found", goalID))
	}
	return goal, nil
}
