package model

import (
	"time"
)

type UserDetail struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"uniqueIndex:idx_user_id"`
	Nickname  string `gorm:"type:varchar(50)"`
	AvatarURL string `gorm:"type:varchar(255)"`
	Bio       string `gorm:"type:varchar(255)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserDetail) TableName() string {
	return "user_details"
}
