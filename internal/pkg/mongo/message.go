package mongo

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 消息类型（闭集）
const (
	MsgTypeText          = "text"
	MsgTypeImage         = "image"
	MsgTypeFile          = "file"
	MsgTypeProjectInvite = "project_invite"
	MsgTypeCollabRequest = "collaboration_request"
)

// ValidMsgTypes 合法的消息类型集合
var ValidMsgTypes = map[string]struct{}{
	MsgTypeText:          {},
	MsgTypeImage:         {},
	MsgTypeFile:          {},
	MsgTypeProjectInvite: {},
	MsgTypeCollabRequest: {},
}

// Message MongoDB 消息明细模型
type Message struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConvKey     string             `bson:"conv_key" json:"convKey"`         // 会话标识 uid1_uid2 (小号在前)
	SenderID    uint64             `bson:"sender_id" json:"senderId"`       // 发送者 UID
	RecipientID uint64             `bson:"recipient_id" json:"recipientId"` // 接收者 UID
	MsgType     string             `bson:"msg_type" json:"msgType"`
	Content     string             `bson:"content" json:"content"`
	Attachments []Attachment       `bson:"attachments,omitempty" json:"attachments"`
	ReplyTo     primitive.ObjectID `bson:"reply_to,omitempty" json:"replyTo"`     // 被回复的消息 ID
	ProjectID   uint64             `bson:"project_id,omitempty" json:"projectId"` // 关联项目 ID (邀请类消息)
	Reactions   []Reaction         `bson:"reactions,omitempty" json:"reactions"`

	IsRead    bool       `bson:"is_read" json:"isRead"`
	ReadAt    *time.Time `bson:"read_at,omitempty" json:"readAt"`
	IsEdited  bool       `bson:"is_edited" json:"isEdited"`
	EditedAt  *time.Time `bson:"edited_at,omitempty" json:"editedAt"`
	IsDeleted bool       `bson:"is_deleted" json:"isDeleted"` // 软删除：内容保留，读取隐藏
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deletedAt"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// Attachment 附件
type Attachment struct {
	URL      string `bson:"url" json:"url"`
	Filename string `bson:"filename" json:"filename"`
	MimeType string `bson:"mime_type" json:"mime_type"`
	Size     int64  `bson:"size" json:"size"`
}

// Reaction 表情回应，(user_id, emoji) 对唯一
type Reaction struct {
	UserID uint64 `bson:"user_id" json:"userId"`
	Emoji  string `bson:"emoji" json:"emoji"`
}

// ConversationKey 生成与消息方向无关的会话标识
func ConversationKey(userA, userB uint64) string {
	if userA < userB {
		return fmt.Sprintf("%d_%d", userA, userB)
	}
	return fmt.Sprintf("%d_%d", userB, userA)
}

// IsParticipant 判断用户是否为该消息的参与方
func (m *Message) IsParticipant(userID uint64) bool {
	return m.SenderID == userID || m.RecipientID == userID
}

// ConversationSummary listConversations 聚合结果的单行
type ConversationSummary struct {
	ConvKey     string   `bson:"_id" json:"convKey"`
	LastMessage *Message `bson:"last_message" json:"lastMessage"`
	UnreadCount int64    `bson:"unread_count" json:"unreadCount"`
}
