package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/myifeai/myifeai/internal/logger"
	"github.com/myifeai/myifeai/internal/types"
)

type TaskLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, logs []*types.TaskLog) ([]*types.TaskLog, error)
	GetRecentByUserID(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]*types.TaskLog, error)
}

type taskLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskLogRepo(db *gorm.DB, baseLog *logger.Logger) TaskLogRepo {
	repoLog := baseLog.With("repo", "TaskLogRepo")
	return &taskLogRepo{db: db, log: repoLog}
}

func (tr *taskLogRepo) Create(ctx context.Context, tx *gorm.DB, logs []*types.TaskLog) ([]*types.TaskLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if len(logs) == 0 {
		return []*types.TaskLog{}, nil
	}

	for _, l := range logs {
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
	}

	if err := transaction.WithContext(ctx).Create(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// GetRecentByUserID returns the newest completions first. The window feeds
// the plan generator's "do not repeat" context.
func (tr *taskLogRepo) GetRecentByUserID(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]*types.TaskLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.TaskLog

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
