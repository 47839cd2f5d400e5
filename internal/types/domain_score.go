package types

import (
	"time"

	"github.com/google/uuid"
)

type DomainScore struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;not null;index:idx_domain_score_user_domain,unique,priority:1" json:"user_id"`
	Domain    string    `gorm:"column:domain;not null;index:idx_domain_score_user_domain,unique,priority:2" json:"domain"`
	Score     int       `gorm:"column:score;not null;default:0" json:"score"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (DomainScore) TableName() string { return "domain_score" }
