package kafka

import "time"

// NotifyEvent 协作方服务发布的领域事件，消费后转为站内通知
type NotifyEvent struct {
	OwnerID       uint64            `json:"owner_id"`
	NotifyType    string            `json:"notify_type"`
	Title         string            `json:"title"`
	Body          string            `json:"body"`
	Priority      string            `json:"priority"`
	Action        *NotifyActionPart `json:"action"`
	RelatedUserID uint64            `json:"related_user_id"`
	ProjectID     uint64            `json:"project_id"`
	EventID       uint64            `json:"event_id"`
	AchievementID uint64            `json:"achievement_id"`
	MessageID     string            `json:"message_id"`
	ExpiresAt     *time.Time        `json:"expires_at"`
}

type NotifyActionPart struct {
	ActionType       string `json:"action_type"`
	URL              string `json:"url"`
	Text             string `json:"text"`
	RequiresResponse bool   `json:"requires_response"`
}
