package types

import (
	"time"
)

// Profile is one row per authenticated identity. The primary key is the
// identity provider's stable user id, not a locally generated uuid.
type Profile struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	FullName  string    `gorm:"column:full_name;not null;default:''" json:"full_name"`
	XPPoints  int       `gorm:"column:xp_points;not null;default:0" json:"xp_points"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Profile) TableName() string { return "profile" }
