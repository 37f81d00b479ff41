package handlers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pathforge/taskpipe-backend/internal/platform/apierr"
	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/repos"
	"github.com/pathforge/taskpipe-backend/internal/requestdata"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

type ProfileHandler struct {
	log         *logger.Logger
	profileRepo repos.UserProfileRepo
}

func NewProfileHandler(log *logger.Logger, profileRepo repos.UserProfileRepo) *ProfileHandler {
	return &ProfileHandler{
		log:         log.With("handler", "ProfileHandler"),
		profileRepo: profileRepo,
	}
}

// PUT /api/v1/profile
func (h *ProfileHandler) Upsert(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, apierr.New(401, "unauthorized", fmt.Errorf("no identity on request")))
		return
	}

	var profile types.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		RespondError(c, apierr.BadRequest("invalid_profile", err))
		return
	}
	profile.UserID = rd.UserID

	saved, err := h.profileRepo.Upsert(c.Request.Context(), nil, &profile)
	if err != nil {
		h.log.Error("profile upsert failed", "user_id", rd.UserID.String(), "error", err)
		RespondError(c, apierr.Internal("profile_upsert_failed", err))
		return
	}
	RespondOK(c, saved)
}

// GET /api/v1/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, apierr.New(401, "unauthorized", fmt.Errorf("no identity on request")))
		return
	}

	profile, err := h.profileRepo.GetByUserID(c.Request.Context(), nil, rd.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		RespondError(c, apierr.NotFound("profile_not_found", err))
		return
	}
	if err != nil {
		RespondError(c, apierr.Internal("profile_fetch_failed", err))
		return
	}
	RespondOK(c, profile)
}
