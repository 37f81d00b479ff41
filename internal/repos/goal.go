package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

type GoalRepo interface {
	Create(ctx context.Context, tx *gorm.DB, goal *types.Goal) (*types.Goal, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Goal, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Goal, error)
}

type goalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGoalRepo(db *gorm.DB, baseLog *logger.Logger) GoalRepo {
	repoLog := baseLog.With("repo", "GoalRepo")
	return &goalRepo{db: db, log: repoLog}
}

func (r *goalRepo) Create(ctx context.Context, tx *gorm.DB, goal *types.Goal) (*types.Goal, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(goal).Error; err != nil {
		return nil, err
	}
	return goal, nil
}

func (r *goalRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Goal, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var goal types.Goal
	if err := transaction.WithContext(ctx).First(&goal, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *goalRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Goal, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Goal
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("priority desc, created_at asc").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
