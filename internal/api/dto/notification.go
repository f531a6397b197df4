package dto

import "time"

// NotificationActionDTO 通知附带的动作
type NotificationActionDTO struct {
	ActionType       string `json:"action_type"`
	URL              string `json:"url"`
	Text             string `json:"text"`
	RequiresResponse bool   `json:"requires_response"`
}

// CreateNotificationReq 创建通知请求体
type CreateNotificationReq struct {
	OwnerID       uint64                 `json:"owner_id" binding:"required"`
	NotifyType    string                 `json:"notify_type" binding:"required"`
	Title         string                 `json:"title" binding:"required"`
	Body          string                 `json:"body"`
	Priority      string                 `json:"priority"` // low/medium/high/urgent, 默认 medium
	Action        *NotificationActionDTO `json:"action"`
	RelatedUserID uint64                 `json:"related_user_id"`
	ProjectID     uint64                 `json:"project_id"`
	EventID       uint64                 `json:"event_id"`
	AchievementID uint64                 `json:"achievement_id"`
	MessageID     string                 `json:"message_id"`
	ExpiresAt     *time.Time             `json:"expires_at"` // 为空时按类型 TTL 计算
}

// NotificationDTO 通知响应
type NotificationDTO struct {
	ID            string                 `json:"id"`
	NotifyType    string                 `json:"notify_type"`
	Title         string                 `json:"title"`
	Body          string                 `json:"body"`
	Priority      string                 `json:"priority"`
	Category      string                 `json:"category"`
	Action        *NotificationActionDTO `json:"action,omitempty"`
	RelatedUserID uint64                 `json:"related_user_id,omitempty"`
	ProjectID     uint64                 `json:"project_id,omitempty"`
	EventID       uint64                 `json:"event_id,omitempty"`
	AchievementID uint64                 `json:"achievement_id,omitempty"`
	MessageID     string                 `json:"message_id,omitempty"`
	IsRead        bool                   `json:"is_read"`
	ReadAt        *time.Time             `json:"read_at,omitempty"`
	IsArchived    bool                   `json:"is_archived"`
	CreatedAt     time.Time              `json:"created_at"`
	ExpiresAt     time.Time              `json:"expires_at"`
}

// MarkNotifyReadReq 通知已读请求体
type MarkNotifyReadReq struct {
	NotificationID string `json:"notification_id" binding:"required"`
}

// ArchiveNotifyReq 通知归档请求体
type ArchiveNotifyReq struct {
	NotificationID string `json:"notification_id" binding:"required"`
}

// NotificationListReq 通知列表查询条件
type NotificationListReq struct {
	IsRead     *bool  `form:"is_read"`
	NotifyType string `form:"notify_type"`
	Category   string `form:"category"`
	Priority   string `form:"priority"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}
