package model

import (
	"time"
)

// 项目成员关系，项目频道的订阅权限以此为准
type ProjectMember struct {
	ID        uint64 `gorm:"primaryKey"`
	ProjectID uint64 `gorm:"uniqueIndex:idx_project_user"`
	UserID    uint64 `gorm:"uniqueIndex:idx_project_user"`
	Role      string `gorm:"type:varchar(20);default:member"`
	CreatedAt time.Time
}

func (ProjectMember) TableName() string {
	return "project_members"
}
