package repos

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

// TaskCacheRepo is the durable fallback behind the redis task cache. Entries
// past their expiry are treated as absent on read.
type TaskCacheRepo interface {
	Get(ctx context.Context, tx *gorm.DB, profileHash, generationType string) (*types.TaskCacheEntry, error)
	Put(ctx context.Context, tx *gorm.DB, profileHash, generationType string, tasks []types.Task, costUSD float64, ttl time.Duration) error
	RecordHit(ctx context.Context, tx *gorm.DB, id string) error
}

type taskCacheRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskCacheRepo(db *gorm.DB, baseLog *logger.Logger) TaskCacheRepo {
	repoLog := baseLog.With("repo", "TaskCacheRepo")
	return &taskCacheRepo{db: db, log: repoLog}
}

func (r *taskCacheRepo) Get(ctx context.Context, tx *gorm.DB, profileHash, generationType string) (*types.TaskCacheEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var entry types.TaskCacheEntry
	err := transaction.WithContext(ctx).
		Where("profile_hash = ? AND generation_type = ? AND expires_at > ?",
			profileHash, generationType, time.Now().UTC()).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *taskCacheRepo) Put(ctx context.Context, tx *gorm.DB, profileHash, generationType string, tasks []types.Task, costUSD float64, ttl time.Duration) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	raw, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	entry := types.TaskCacheEntry{
		ProfileHash:    profileHash,
		GenerationType: generationType,
		Tasks:          raw,
		CostUSD:        costUSD,
		ExpiresAt:      time.Now().UTC().Add(ttl),
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_hash"}, {Name: "generation_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"tasks", "cost_usd", "expires_at", "updated_at"}),
		}).
		Create(&entry).Error
}

func (r *taskCacheRepo) RecordHit(ctx context.Context, tx *gorm.DB, id string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.TaskCacheEntry{}).
		Where("id = ?", id).
		UpdateColumn("hit_count", gorm.Expr("hit_count + 1")).Error
}
