package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 通知类型（闭集）
const (
	NotifyConnectionRequest  = "connection_request"
	NotifyConnectionAccepted = "connection_accepted"
	NotifyMessageReceived    = "message_received"
	NotifyProjectInvite      = "project_invite"
	NotifyProjectUpdate      = "project_update"
	NotifyCollabRequest      = "collaboration_request"
	NotifyEventInvite        = "event_invite"
	NotifyEventReminder      = "event_reminder"
	NotifyEventUpdate        = "event_update"
	NotifyAchievementEarned  = "achievement_earned"
	NotifyEndorsement        = "endorsement_received"
	NotifyProfileView        = "profile_view"
	NotifyMention            = "mention"
	NotifySystemAnnouncement = "system_announcement"
)

// 优先级
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// 分类
const (
	CategorySocial       = "social"
	CategoryProfessional = "professional"
	CategorySystem       = "system"
	CategoryReminder     = "reminder"
)

// NotifyTTLTable 各类型通知的默认存活时长，创建时用于计算 expires_at
var NotifyTTLTable = map[string]time.Duration{
	NotifyConnectionRequest:  7 * 24 * time.Hour,
	NotifyConnectionAccepted: 30 * 24 * time.Hour,
	NotifyMessageReceived:    30 * 24 * time.Hour,
	NotifyProjectInvite:      7 * 24 * time.Hour,
	NotifyProjectUpdate:      14 * 24 * time.Hour,
	NotifyCollabRequest:      7 * 24 * time.Hour,
	NotifyEventInvite:        7 * 24 * time.Hour,
	NotifyEventReminder:      24 * time.Hour,
	NotifyEventUpdate:        3 * 24 * time.Hour,
	NotifyAchievementEarned:  90 * 24 * time.Hour,
	NotifyEndorsement:        30 * 24 * time.Hour,
	NotifyProfileView:        3 * 24 * time.Hour,
	NotifyMention:            14 * 24 * time.Hour,
	NotifySystemAnnouncement: 30 * 24 * time.Hour,
}

// NotifyCategoryTable 类型缺省分类
var NotifyCategoryTable = map[string]string{
	NotifyConnectionRequest:  CategorySocial,
	NotifyConnectionAccepted: CategorySocial,
	NotifyMessageReceived:    CategorySocial,
	NotifyProfileView:        CategorySocial,
	NotifyMention:            CategorySocial,
	NotifyProjectInvite:      CategoryProfessional,
	NotifyProjectUpdate:      CategoryProfessional,
	NotifyCollabRequest:      CategoryProfessional,
	NotifyAchievementEarned:  CategoryProfessional,
	NotifyEndorsement:        CategoryProfessional,
	NotifyEventInvite:        CategoryProfessional,
	NotifyEventReminder:      CategoryReminder,
	NotifyEventUpdate:        CategoryReminder,
	NotifySystemAnnouncement: CategorySystem,
}

// NotificationAction 通知携带的动作描述
type NotificationAction struct {
	ActionType       string `bson:"action_type" json:"action_type"`
	URL              string `bson:"url" json:"url"`
	Text             string `bson:"text" json:"text"`
	RequiresResponse bool   `bson:"requires_response" json:"requires_response"`
}

// Notification 系统通知模型
type Notification struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OwnerID    uint64              `bson:"owner_id" json:"ownerId"` // 通知归属者 UID
	NotifyType string              `bson:"notify_type" json:"notifyType"`
	Title      string              `bson:"title" json:"title"`
	Body       string              `bson:"body" json:"body"`
	Priority   string              `bson:"priority" json:"priority"`
	Category   string              `bson:"category" json:"category"`
	Action     *NotificationAction `bson:"action,omitempty" json:"action"`

	// 关联实体引用，边界外协作者负责其有效性
	RelatedUserID        uint64 `bson:"related_user_id,omitempty" json:"relatedUserId"`
	RelatedProjectID     uint64 `bson:"related_project_id,omitempty" json:"relatedProjectId"`
	RelatedEventID       uint64 `bson:"related_event_id,omitempty" json:"relatedEventId"`
	RelatedAchievementID uint64 `bson:"related_achievement_id,omitempty" json:"relatedAchievementId"`
	RelatedMessageID     string `bson:"related_message_id,omitempty" json:"relatedMessageId"`

	// 渠道投递标记，由外部投递协作者回写
	EmailSent bool `bson:"email_sent" json:"emailSent"`
	PushSent  bool `bson:"push_sent" json:"pushSent"`
	InApp     bool `bson:"in_app" json:"inApp"`

	IsRead     bool       `bson:"is_read" json:"isRead"`
	ReadAt     *time.Time `bson:"read_at,omitempty" json:"readAt"`
	IsArchived bool       `bson:"is_archived" json:"isArchived"`
	ArchivedAt *time.Time `bson:"archived_at,omitempty" json:"archivedAt"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	ExpiresAt time.Time `bson:"expires_at" json:"expiresAt"` // 过期后对所有读取不可见，由清理任务移除
}
