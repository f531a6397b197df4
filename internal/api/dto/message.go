package dto

import "time"

// AttachmentDTO 附件
type AttachmentDTO struct {
	URL      string `json:"url" binding:"required"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// SendMessageReq 发送消息请求体
type SendMessageReq struct {
	RecipientID uint64          `json:"recipient_id" binding:"required"`
	MsgType     string          `json:"msg_type" binding:"required"` // text/image/file/project_invite/collaboration_request
	Content     string          `json:"content"`
	Attachments []AttachmentDTO `json:"attachments"`
	ReplyTo     string          `json:"reply_to"`
	ProjectID   uint64          `json:"project_id"`
}

// EditMessageReq 编辑消息请求体
type EditMessageReq struct {
	Content string `json:"content" binding:"required"`
}

// MarkMessageReadReq 单条已读请求体
type MarkMessageReadReq struct {
	MessageID string `json:"message_id" binding:"required"`
}

// MarkConversationReadReq 会话级已读请求体
type MarkConversationReadReq struct {
	PeerID uint64 `json:"peer_id" binding:"required"`
}

// ReactionReq 表情回应请求体
type ReactionReq struct {
	Emoji string `json:"emoji" binding:"required"`
}

// ReactionDTO 表情回应
type ReactionDTO struct {
	UserID uint64 `json:"user_id"`
	Emoji  string `json:"emoji"`
}

// MessageReactionDTO 表情回应推送载荷，带回应所属的消息定位
type MessageReactionDTO struct {
	MessageID string `json:"message_id"`
	ConvKey   string `json:"conv_key"`
	UserID    uint64 `json:"user_id"`
	Emoji     string `json:"emoji"`
}

// MessageDTO 消息明细响应
type MessageDTO struct {
	ID          string          `json:"id"`
	ConvKey     string          `json:"conv_key"`
	SenderID    uint64          `json:"sender_id"`
	RecipientID uint64          `json:"recipient_id"`
	MsgType     string          `json:"msg_type"`
	Content     string          `json:"content"`
	Attachments []AttachmentDTO `json:"attachments,omitempty"`
	ReplyTo     string          `json:"reply_to,omitempty"`
	ProjectID   uint64          `json:"project_id,omitempty"`
	Reactions   []ReactionDTO   `json:"reactions,omitempty"`
	IsRead      bool            `json:"is_read"`
	ReadAt      *time.Time      `json:"read_at,omitempty"`
	IsEdited    bool            `json:"is_edited"`
	EditedAt    *time.Time      `json:"edited_at,omitempty"`
	IsDeleted   bool            `json:"is_deleted"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ConversationDTO 会话列表项响应
type ConversationDTO struct {
	ConvKey       string      `json:"conv_key"`
	PeerID        uint64      `json:"peer_id"`
	PeerNickname  string      `json:"peer_nickname"`
	PeerAvatarURL string      `json:"peer_avatar_url"`
	LastMessage   *MessageDTO `json:"last_message"`
	UnreadCount   int64       `json:"unread_count"`
}

// UnreadCountDTO 未读数返回
type UnreadCountDTO struct {
	UnreadCount int64 `json:"unread_count"`
}

// MarkedCountDTO 批量标记结果
type MarkedCountDTO struct {
	MarkedCount int64 `json:"marked_count"`
}
