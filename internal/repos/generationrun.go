package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

type GenerationRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *types.GenerationRun) (*types.GenerationRun, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.GenerationRun, error)
}

type generationRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGenerationRunRepo(db *gorm.DB, baseLog *logger.Logger) GenerationRunRepo {
	repoLog := baseLog.With("repo", "GenerationRunRepo")
	return &generationRunRepo{db: db, log: repoLog}
}

func (r *generationRunRepo) Create(ctx context.Context, tx *gorm.DB, run *types.GenerationRun) (*types.GenerationRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (r *generationRunRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.GenerationRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 20
	}
	var out []*types.GenerationRun
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
