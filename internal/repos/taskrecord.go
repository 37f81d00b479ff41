package repos

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

type TaskRecordRepo interface {
	// CreateBatch inserts records, skipping any whose idempotency key already
	// exists. Returns (created, skipped).
	CreateBatch(ctx context.Context, tx *gorm.DB, records []*types.TaskRecord) (int, int, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.TaskRecord, error)
	ListByGoal(ctx context.Context, tx *gorm.DB, goalID uuid.UUID) ([]*types.TaskRecord, error)
}

type taskRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRecordRepo(db *gorm.DB, baseLog *logger.Logger) TaskRecordRepo {
	repoLog := baseLog.With("repo", "TaskRecordRepo")
	return &taskRecordRepo{db: db, log: repoLog}
}

// IdempotencyKey builds the stable key "{user_id}_{scheduled_date}_{title[:50]}".
func IdempotencyKey(userID uuid.UUID, scheduledDate, title string) string {
	prefix := title
	if len(prefix) > 50 {
		prefix = prefix[:50]
	}
	return fmt.Sprintf("%s_%s_%s", userID, scheduledDate, prefix)
}

func (r *taskRecordRepo) CreateBatch(ctx context.Context, tx *gorm.DB, records []*types.TaskRecord) (int, int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(records) == 0 {
		return 0, 0, nil
	}

	created := 0
	skipped := 0
	for _, rec := range records {
		if rec.IdempotencyKey == "" {
			rec.IdempotencyKey = IdempotencyKey(rec.UserID, rec.ScheduledDate, rec.Title)
		}
		res := transaction.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "idempotency_key"}},
				DoNothing: true,
			}).
			Create(rec)
		if res.Error != nil {
			return created, skipped, res.Error
		}
		if res.RowsAffected == 0 {
			skipped++
			r.log.Debug("task already exists, skipping", "idempotency_key", rec.IdempotencyKey)
			continue
		}
		created++
	}
	return created, skipped, nil
}

func (r *taskRecordRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.TaskRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.TaskRecord
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("scheduled_date asc, personalization_score desc").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *taskRecordRepo) ListByGoal(ctx context.Context, tx *gorm.DB, goalID uuid.UUID) ([]*types.TaskRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.TaskRecord
	err := transaction.WithContext(ctx).
		Where("goal_id = ?", goalID).
		Order("scheduled_date asc").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
