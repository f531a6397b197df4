package service

import (
	"Nexus/internal/api/dto"
	"Nexus/internal/pkg/consts"
	"Nexus/internal/pkg/minio"
	mongodb "Nexus/internal/pkg/mongo"
	"Nexus/internal/pkg/redis"
	"Nexus/internal/repository"
	"context"
	"strconv"
	"time"

	log "log/slog"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MessageService 私信服务接口定义
type MessageService interface {
	SendMessage(ctx context.Context, senderID uint64, req *dto.SendMessageReq) (*dto.MessageDTO, error)
	EditMessage(ctx context.Context, userID uint64, msgID string, req *dto.EditMessageReq) (*dto.MessageDTO, error)
	DeleteMessage(ctx context.Context, userID uint64, msgID string) error
	MarkAsRead(ctx context.Context, userID uint64, msgID string) error
	AddReaction(ctx context.Context, userID uint64, msgID string, emoji string) error
	RemoveReaction(ctx context.Context, userID uint64, msgID string, emoji string) error
	GetMessage(ctx context.Context, userID uint64, msgID string) (*dto.MessageDTO, error)
	GetChatHistory(ctx context.Context, userID uint64, peerID uint64, page, pageSize int) ([]*dto.MessageDTO, error)
	MarkConversationRead(ctx context.Context, userID uint64, peerID uint64) (int64, error)
	GetConversationList(ctx context.Context, userID uint64) ([]*dto.ConversationDTO, error)
	GetUnreadTotal(ctx context.Context, userID uint64) (int64, error)
}

type messageServiceImpl struct {
	messageRepo mongodb.MessageRepo
	userRepo    repository.UserRepo
	fanout      FanoutService
}

func NewMessageService(messageRepo mongodb.MessageRepo, userRepo repository.UserRepo, fanout FanoutService) MessageService {
	return &messageServiceImpl{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		fanout:      fanout,
	}
}

// SendMessage 发送消息：先落库，成功后才推送
func (s *messageServiceImpl) SendMessage(ctx context.Context, senderID uint64, req *dto.SendMessageReq) (*dto.MessageDTO, error) {
	if _, ok := mongodb.ValidMsgTypes[req.MsgType]; !ok {
		return nil, ErrMsgTypeInvalid
	}
	// 正文为空时，非文本类型必须至少携带一个附件
	if req.Content == "" && (req.MsgType == mongodb.MsgTypeText || len(req.Attachments) == 0) {
		return nil, ErrParamInvalid
	}
	if len([]rune(req.Content)) > consts.MaxMessageContentLen {
		return nil, ErrMsgContentTooLong
	}

	active, err := s.userRepo.ExistsActiveUser(ctx, req.RecipientID)
	if err != nil {
		log.Error("Failed to check recipient", "err", err)
		return nil, UnExpectedError
	}
	if !active {
		return nil, ErrTargetUserInvalid
	}

	convKey := mongodb.ConversationKey(senderID, req.RecipientID)

	var replyTo primitive.ObjectID
	if req.ReplyTo != "" {
		replyTo, err = primitive.ObjectIDFromHex(req.ReplyTo)
		if err != nil {
			return nil, ErrParamInvalid
		}
		parent, err := s.messageRepo.GetByID(ctx, replyTo)
		if err != nil || parent == nil || parent.IsDeleted || parent.ConvKey != convKey {
			return nil, ErrReplyNotFound
		}
	}

	now := time.Now()
	msg := &mongodb.Message{
		ConvKey:     convKey,
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		MsgType:     req.MsgType,
		Content:     req.Content,
		Attachments: toAttachments(req.Attachments),
		ReplyTo:     replyTo,
		ProjectID:   req.ProjectID,
		CreatedAt:   now,
	}

	// 发给自己的消息直接视为已读
	if senderID == req.RecipientID {
		msg.IsRead = true
		msg.ReadAt = &now
	}

	if err := s.messageRepo.SaveMessage(ctx, msg); err != nil {
		log.Error("Failed to save message", "err", err)
		return nil, UnExpectedError
	}

	msgDTO := s.toMessageDTO(msg)
	s.fanout.PushToUser(req.RecipientID, "new_message", msgDTO)

	return msgDTO, nil
}

// EditMessage 编辑消息：仅发送者可编辑，且限发送后 24 小时内
func (s *messageServiceImpl) EditMessage(ctx context.Context, userID uint64, msgID string, req *dto.EditMessageReq) (*dto.MessageDTO, error) {
	if req.Content == "" {
		return nil, ErrParamInvalid
	}
	if len([]rune(req.Content)) > consts.MaxMessageContentLen {
		return nil, ErrMsgContentTooLong
	}

	msg, err := s.getVisibleMessage(ctx, msgID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != userID {
		return nil, UnauthorizedError
	}
	if time.Since(msg.CreatedAt) > consts.MessageEditWindowHours*time.Hour {
		return nil, ErrEditWindowClosed
	}

	now := time.Now()
	if err := s.messageRepo.UpdateContent(ctx, msg.ID, req.Content, now); err != nil {
		log.Error("Failed to edit message", "err", err)
		return nil, UnExpectedError
	}

	msg.Content = req.Content
	msg.IsEdited = true
	msg.EditedAt = &now

	msgDTO := s.toMessageDTO(msg)
	s.fanout.PushToUser(msg.RecipientID, "message_edited", msgDTO)

	return msgDTO, nil
}

// DeleteMessage 软删除：会话双方均可删除，重复删除不报错
func (s *messageServiceImpl) DeleteMessage(ctx context.Context, userID uint64, msgID string) error {
	id, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return ErrParamInvalid
	}
	msg, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrMessageNotFound
		}
		log.Error("Failed to load message", "err", err)
		return UnExpectedError
	}
	if msg == nil {
		return ErrMessageNotFound
	}
	if !msg.IsParticipant(userID) {
		return UnauthorizedError
	}
	if msg.IsDeleted {
		return nil
	}

	if err := s.messageRepo.SoftDelete(ctx, id, time.Now()); err != nil {
		log.Error("Failed to delete message", "err", err)
		return UnExpectedError
	}

	s.fanout.PushToUser(s.peerOf(msg, userID), "message_deleted", map[string]string{"id": msgID})
	return nil
}

// MarkAsRead 单条标记已读：仅接收者可标记，重复标记不报错
func (s *messageServiceImpl) MarkAsRead(ctx context.Context, userID uint64, msgID string) error {
	msg, err := s.getVisibleMessage(ctx, msgID)
	if err != nil {
		return err
	}
	if msg.RecipientID != userID {
		return UnauthorizedError
	}
	if msg.IsRead {
		return nil
	}

	if err := s.messageRepo.MarkRead(ctx, msg.ID, time.Now()); err != nil {
		log.Error("Failed to mark message read", "err", err)
		return UnExpectedError
	}
	return nil
}

// AddReaction 添加表情回应：双方均可，(用户, 表情) 去重
func (s *messageServiceImpl) AddReaction(ctx context.Context, userID uint64, msgID string, emoji string) error {
	if emoji == "" {
		return ErrParamInvalid
	}
	msg, err := s.getVisibleMessage(ctx, msgID)
	if err != nil {
		return err
	}
	if !msg.IsParticipant(userID) {
		return UnauthorizedError
	}

	if err := s.messageRepo.AddReaction(ctx, msg.ID, mongodb.Reaction{UserID: userID, Emoji: emoji}); err != nil {
		log.Error("Failed to add reaction", "err", err)
		return UnExpectedError
	}

	s.fanout.PushToUser(s.peerOf(msg, userID), "message_reaction", &dto.MessageReactionDTO{
		MessageID: msgID,
		ConvKey:   msg.ConvKey,
		UserID:    userID,
		Emoji:     emoji,
	})
	return nil
}

// RemoveReaction 移除表情回应：移除不存在的回应不报错
func (s *messageServiceImpl) RemoveReaction(ctx context.Context, userID uint64, msgID string, emoji string) error {
	if emoji == "" {
		return ErrParamInvalid
	}
	msg, err := s.getVisibleMessage(ctx, msgID)
	if err != nil {
		return err
	}
	if !msg.IsParticipant(userID) {
		return UnauthorizedError
	}

	if err := s.messageRepo.RemoveReaction(ctx, msg.ID, mongodb.Reaction{UserID: userID, Emoji: emoji}); err != nil {
		log.Error("Failed to remove reaction", "err", err)
		return UnExpectedError
	}

	s.fanout.PushToUser(s.peerOf(msg, userID), "message_reaction_removed", &dto.MessageReactionDTO{
		MessageID: msgID,
		ConvKey:   msg.ConvKey,
		UserID:    userID,
		Emoji:     emoji,
	})
	return nil
}

// GetMessage 查询单条消息：仅会话参与方可见，软删除的记录仍可按 ID 取回
func (s *messageServiceImpl) GetMessage(ctx context.Context, userID uint64, msgID string) (*dto.MessageDTO, error) {
	id, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return nil, ErrParamInvalid
	}
	msg, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrMessageNotFound
		}
		log.Error("Failed to load message", "err", err)
		return nil, UnExpectedError
	}
	if msg == nil {
		return nil, ErrMessageNotFound
	}
	if !msg.IsParticipant(userID) {
		return nil, UnauthorizedError
	}
	return s.toMessageDTO(msg), nil
}

// GetChatHistory 拉取会话历史，页内按时间正序返回
func (s *messageServiceImpl) GetChatHistory(ctx context.Context, userID uint64, peerID uint64, page, pageSize int) ([]*dto.MessageDTO, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 50
	}

	convKey := mongodb.ConversationKey(userID, peerID)
	msgs, err := s.messageRepo.GetConversation(ctx, convKey, page, pageSize)
	if err != nil {
		log.Error("Failed to load chat history", "err", err)
		return nil, UnExpectedError
	}

	list := make([]*dto.MessageDTO, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		list = append(list, s.toMessageDTO(msgs[i]))
	}
	return list, nil
}

// MarkConversationRead 会话级批量已读：单次 UpdateMany 保证观察上的原子性
func (s *messageServiceImpl) MarkConversationRead(ctx context.Context, userID uint64, peerID uint64) (int64, error) {
	convKey := mongodb.ConversationKey(userID, peerID)
	count, err := s.messageRepo.MarkConversationRead(ctx, convKey, userID, time.Now())
	if err != nil {
		log.Error("Failed to mark conversation read", "err", err)
		return 0, UnExpectedError
	}
	return count, nil
}

// GetConversationList 会话列表：按最新一条消息倒序，带对端用户信息
func (s *messageServiceImpl) GetConversationList(ctx context.Context, userID uint64) ([]*dto.ConversationDTO, error) {
	summaries, err := s.messageRepo.ListConversationSummaries(ctx, userID)
	if err != nil {
		log.Error("Failed to list conversations", "err", err)
		return nil, UnExpectedError
	}

	peerIds := make([]uint64, 0, len(summaries))
	for _, sum := range summaries {
		if sum.LastMessage == nil {
			continue
		}
		peerIds = append(peerIds, s.peerOf(sum.LastMessage, userID))
	}

	users, err := s.getUserSimpleInfoByIds(ctx, peerIds)
	if err != nil {
		log.Error("Failed to load peer info", "err", err)
		return nil, UnExpectedError
	}

	list := make([]*dto.ConversationDTO, 0, len(summaries))
	for _, sum := range summaries {
		if sum.LastMessage == nil {
			continue
		}
		peerID := s.peerOf(sum.LastMessage, userID)
		conv := &dto.ConversationDTO{
			ConvKey:     sum.ConvKey,
			PeerID:      peerID,
			LastMessage: s.toMessageDTO(sum.LastMessage),
			UnreadCount: sum.UnreadCount,
		}
		if u := users[peerID]; u != nil {
			if u.Nickname != nil {
				conv.PeerNickname = *u.Nickname
			}
			if u.AvatarURL != nil {
				conv.PeerAvatarURL = *u.AvatarURL
			}
		}
		list = append(list, conv)
	}
	return list, nil
}

// GetUnreadTotal 全局未读消息数
func (s *messageServiceImpl) GetUnreadTotal(ctx context.Context, userID uint64) (int64, error) {
	count, err := s.messageRepo.CountUnread(ctx, userID)
	if err != nil {
		log.Error("Failed to count unread messages", "err", err)
		return 0, UnExpectedError
	}
	return count, nil
}

// getVisibleMessage 解析消息 ID 并过滤软删除
func (s *messageServiceImpl) getVisibleMessage(ctx context.Context, msgID string) (*mongodb.Message, error) {
	id, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return nil, ErrParamInvalid
	}
	msg, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrMessageNotFound
		}
		log.Error("Failed to load message", "err", err)
		return nil, UnExpectedError
	}
	if msg == nil || msg.IsDeleted {
		return nil, ErrMessageNotFound
	}
	return msg, nil
}

func (s *messageServiceImpl) peerOf(msg *mongodb.Message, userID uint64) uint64 {
	if msg.SenderID == userID {
		return msg.RecipientID
	}
	return msg.SenderID
}

// getUserSimpleInfoByIds 带 Redis 旁路缓存的用户简要信息批量查询
func (s *messageServiceImpl) getUserSimpleInfoByIds(ctx context.Context, ids []uint64) (map[uint64]*dto.UserDTO, error) {
	mp := make(map[uint64]*dto.UserDTO)
	newIds := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := mp[id]; ok {
			continue
		}
		value, err := redis.GetValue(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(id, 10))
		if err != nil {
			// 缓存读取失败不影响主流程，回源数据库
			log.Warn("Failed to read user info cache", "err", err)
			newIds = append(newIds, id)
			continue
		}
		if value != "" {
			var userDTO *dto.UserDTO
			if err = json.Unmarshal([]byte(value), &userDTO); err == nil {
				mp[id] = userDTO
				continue
			}
		}
		newIds = append(newIds, id)
	}

	if len(newIds) > 0 {
		userDetails, err := s.userRepo.GetUserSimpleInfoByIds(ctx, newIds)
		if err != nil {
			return nil, err
		}
		for _, detail := range userDetails {
			url := minio.GetPublicURL(detail.AvatarURL)
			userDTO := &dto.UserDTO{
				UserID:    &detail.UserID,
				Nickname:  &detail.Nickname,
				AvatarURL: &url,
				Bio:       &detail.Bio,
			}
			mp[detail.UserID] = userDTO

			jsonStr, err := json.Marshal(userDTO)
			if err != nil {
				continue
			}
			_ = redis.SetWithExpiration(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(detail.UserID, 10), string(jsonStr), time.Hour*1)
		}
	}
	return mp, nil
}

func (s *messageServiceImpl) toMessageDTO(msg *mongodb.Message) *dto.MessageDTO {
	msgDTO := &dto.MessageDTO{
		ID:          msg.ID.Hex(),
		ConvKey:     msg.ConvKey,
		SenderID:    msg.SenderID,
		RecipientID: msg.RecipientID,
		MsgType:     msg.MsgType,
		Content:     msg.Content,
		ProjectID:   msg.ProjectID,
		IsRead:      msg.IsRead,
		ReadAt:      msg.ReadAt,
		IsEdited:    msg.IsEdited,
		EditedAt:    msg.EditedAt,
		IsDeleted:   msg.IsDeleted,
		CreatedAt:   msg.CreatedAt,
	}
	if !msg.ReplyTo.IsZero() {
		msgDTO.ReplyTo = msg.ReplyTo.Hex()
	}
	for _, a := range msg.Attachments {
		msgDTO.Attachments = append(msgDTO.Attachments, dto.AttachmentDTO{
			URL:      minio.GetPublicURL(a.URL),
			Filename: a.Filename,
			MimeType: a.MimeType,
			Size:     a.Size,
		})
	}
	for _, r := range msg.Reactions {
		msgDTO.Reactions = append(msgDTO.Reactions, dto.ReactionDTO{UserID: r.UserID, Emoji: r.Emoji})
	}
	return msgDTO
}

func toAttachments(in []dto.AttachmentDTO) []mongodb.Attachment {
	if len(in) == 0 {
		return nil
	}
	out := make([]mongodb.Attachment, 0, len(in))
	for _, a := range in {
		out = append(out, mongodb.Attachment{
			URL:      a.URL,
			Filename: a.Filename,
			MimeType: a.MimeType,
			Size:     a.Size,
		})
	}
	return out
}
