package types

import (
	"time"

	"github.com/google/uuid"
)

// TaskLog is append-only. Rows feed the "do not repeat" context of plan
// generation and are never updated or deleted.
type TaskLog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string    `gorm:"column:user_id;not null;index" json:"user_id"`
	Domain      string    `gorm:"column:domain;not null" json:"domain"`
	TaskText    string    `gorm:"column:task_text;not null" json:"task_text"`
	XPAwarded   int       `gorm:"column:xp_awarded;not null;default:0" json:"xp_awarded"`
	CompletedAt time.Time `gorm:"column:completed_at;not null;index" json:"completed_at"`
}

func (TaskLog) TableName() string { return "task_log" }
