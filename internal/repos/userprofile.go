package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

type UserProfileRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, profile *types.UserProfile) (*types.UserProfile, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserProfile, error)
}

type userProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserProfileRepo {
	repoLog := baseLog.With("repo", "UserProfileRepo")
	return &userProfileRepo{db: db, log: repoLog}
}

func (r *userProfileRepo) Upsert(ctx context.Context, tx *gorm.DB, profile *types.UserProfile) (*types.UserProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var existing types.UserProfile
	err := transaction.WithContext(ctx).First(&existing, "user_id = ?", profile.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if cErr := transaction.WithContext(ctx).Create(profile).Error; cErr != nil {
			return nil, cErr
		}
		return profile, nil
	}
	if err != nil {
		return nil, err
	}
	profile.ID = existing.ID
	if sErr := transaction.WithContext(ctx).Model(&existing).Updates(profile).Error; sErr != nil {
		return nil, sErr
	}
	return profile, nil
}

func (r *userProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var profile types.UserProfile
	if err := transaction.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
