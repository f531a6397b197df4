package service

import (
	"Nexus/internal/api/dto"
	"Nexus/internal/pkg/consts"
	mongodb "Nexus/internal/pkg/mongo"
	"context"
	"time"

	log "log/slog"

	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// NotificationService 系统通知服务接口定义
type NotificationService interface {
	CreateNotification(ctx context.Context, req *dto.CreateNotificationReq) (*dto.NotificationDTO, error)
	GetNotificationList(ctx context.Context, userID uint64, req *dto.NotificationListReq) ([]*dto.NotificationDTO, error)
	GetNotification(ctx context.Context, userID uint64, notifyID string) (*dto.NotificationDTO, error)
	MarkAsRead(ctx context.Context, userID uint64, notifyID string) error
	MarkAllAsRead(ctx context.Context, userID uint64) (int64, error)
	Archive(ctx context.Context, userID uint64, notifyID string) error
	GetUnreadCount(ctx context.Context, userID uint64) (int64, error)
	DeleteNotification(ctx context.Context, userID uint64, notifyID string) error
}

type notificationServiceImpl struct {
	notifyRepo mongodb.NotificationRepo
	fanout     FanoutService
}

func NewNotificationService(notifyRepo mongodb.NotificationRepo, fanout FanoutService) NotificationService {
	return &notificationServiceImpl{
		notifyRepo: notifyRepo,
		fanout:     fanout,
	}
}

var validPriorities = map[string]struct{}{
	mongodb.PriorityLow:    {},
	mongodb.PriorityMedium: {},
	mongodb.PriorityHigh:   {},
	mongodb.PriorityUrgent: {},
}

// CreateNotification 创建通知：按类型计算过期时间，落库成功后才推送
func (s *notificationServiceImpl) CreateNotification(ctx context.Context, req *dto.CreateNotificationReq) (*dto.NotificationDTO, error) {
	ttl, ok := mongodb.NotifyTTLTable[req.NotifyType]
	if !ok {
		return nil, ErrNotifyTypeInvalid
	}
	if req.Title == "" || len([]rune(req.Title)) > consts.MaxNotifyTitleLen ||
		len([]rune(req.Body)) > consts.MaxNotifyBodyLen {
		return nil, ErrNotifyContentTooLong
	}

	priority := req.Priority
	if priority == "" {
		priority = mongodb.PriorityMedium
	}
	if _, ok := validPriorities[priority]; !ok {
		return nil, ErrParamInvalid
	}

	now := time.Now()
	expiresAt := now.Add(ttl)
	if req.ExpiresAt != nil {
		if !req.ExpiresAt.After(now) {
			return nil, ErrParamInvalid
		}
		expiresAt = *req.ExpiresAt
	}
	n := &mongodb.Notification{
		OwnerID:              req.OwnerID,
		NotifyType:           req.NotifyType,
		Title:                req.Title,
		Body:                 req.Body,
		Priority:             priority,
		Category:             mongodb.NotifyCategoryTable[req.NotifyType],
		RelatedUserID:        req.RelatedUserID,
		RelatedProjectID:     req.ProjectID,
		RelatedEventID:       req.EventID,
		RelatedAchievementID: req.AchievementID,
		RelatedMessageID:     req.MessageID,
		InApp:                true,
		CreatedAt:            now,
		ExpiresAt:            expiresAt,
	}
	if req.Action != nil {
		action := &mongodb.NotificationAction{}
		if err := copier.Copy(action, req.Action); err != nil {
			return nil, UnExpectedError
		}
		n.Action = action
	}

	if err := s.notifyRepo.CreateNotification(ctx, n); err != nil {
		log.Error("Failed to create notification", "err", err)
		return nil, UnExpectedError
	}

	notifyDTO := s.toNotificationDTO(n)
	s.fanout.PushToUser(n.OwnerID, "new_notification", notifyDTO)
	if n.NotifyType == mongodb.NotifyProjectUpdate && n.RelatedProjectID != 0 {
		s.fanout.PushToProject(n.RelatedProjectID, "project_update", notifyDTO)
	}

	return notifyDTO, nil
}

// GetNotificationList 通知列表：默认排除已归档与已过期
func (s *notificationServiceImpl) GetNotificationList(ctx context.Context, userID uint64, req *dto.NotificationListReq) ([]*dto.NotificationDTO, error) {
	page := req.Page
	if page <= 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	filter := &mongodb.NotificationFilter{
		IsRead:     req.IsRead,
		NotifyType: req.NotifyType,
		Category:   req.Category,
		Priority:   req.Priority,
	}
	list, err := s.notifyRepo.GetNotificationList(ctx, userID, int64(pageSize), int64((page-1)*pageSize), filter)
	if err != nil {
		log.Error("Failed to list notifications", "err", err)
		return nil, UnExpectedError
	}

	result := make([]*dto.NotificationDTO, 0, len(list))
	for _, n := range list {
		result = append(result, s.toNotificationDTO(n))
	}
	return result, nil
}

// GetNotification 查询单条通知：仅归属者可见，过期视为不存在
func (s *notificationServiceImpl) GetNotification(ctx context.Context, userID uint64, notifyID string) (*dto.NotificationDTO, error) {
	n, err := s.getOwnedNotification(ctx, userID, notifyID)
	if err != nil {
		return nil, err
	}
	return s.toNotificationDTO(n), nil
}

// MarkAsRead 标记已读：重复标记不报错
func (s *notificationServiceImpl) MarkAsRead(ctx context.Context, userID uint64, notifyID string) error {
	n, err := s.getOwnedNotification(ctx, userID, notifyID)
	if err != nil {
		return err
	}
	if n.IsRead {
		return nil
	}
	if err := s.notifyRepo.MarkAsRead(ctx, userID, n.ID, time.Now()); err != nil {
		log.Error("Failed to mark notification read", "err", err)
		return UnExpectedError
	}
	return nil
}

// MarkAllAsRead 全部标记已读，返回实际更新条数
func (s *notificationServiceImpl) MarkAllAsRead(ctx context.Context, userID uint64) (int64, error) {
	count, err := s.notifyRepo.MarkAllAsRead(ctx, userID, time.Now())
	if err != nil {
		log.Error("Failed to mark all notifications read", "err", err)
		return 0, UnExpectedError
	}
	return count, nil
}

// Archive 归档：与已读互相独立，重复归档不报错
func (s *notificationServiceImpl) Archive(ctx context.Context, userID uint64, notifyID string) error {
	n, err := s.getOwnedNotification(ctx, userID, notifyID)
	if err != nil {
		return err
	}
	if n.IsArchived {
		return nil
	}
	if err := s.notifyRepo.Archive(ctx, userID, n.ID, time.Now()); err != nil {
		log.Error("Failed to archive notification", "err", err)
		return UnExpectedError
	}
	return nil
}

// GetUnreadCount 未读通知数：排除已归档与已过期
func (s *notificationServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	count, err := s.notifyRepo.GetUnreadCount(ctx, userID)
	if err != nil {
		log.Error("Failed to count unread notifications", "err", err)
		return 0, UnExpectedError
	}
	return count, nil
}

// DeleteNotification 物理删除：仅归属者可删除
func (s *notificationServiceImpl) DeleteNotification(ctx context.Context, userID uint64, notifyID string) error {
	id, err := primitive.ObjectIDFromHex(notifyID)
	if err != nil {
		return ErrParamInvalid
	}
	if err := s.notifyRepo.Delete(ctx, userID, id); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotificationNotFound
		}
		log.Error("Failed to delete notification", "err", err)
		return UnExpectedError
	}
	return nil
}

// getOwnedNotification 解析通知 ID，过滤已过期；非归属者视为越权
func (s *notificationServiceImpl) getOwnedNotification(ctx context.Context, userID uint64, notifyID string) (*mongodb.Notification, error) {
	id, err := primitive.ObjectIDFromHex(notifyID)
	if err != nil {
		return nil, ErrParamInvalid
	}
	n, err := s.notifyRepo.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotificationNotFound
		}
		log.Error("Failed to load notification", "err", err)
		return nil, UnExpectedError
	}
	if n == nil || !n.ExpiresAt.After(time.Now()) {
		return nil, ErrNotificationNotFound
	}
	if n.OwnerID != userID {
		return nil, UnauthorizedError
	}
	return n, nil
}

func (s *notificationServiceImpl) toNotificationDTO(n *mongodb.Notification) *dto.NotificationDTO {
	notifyDTO := &dto.NotificationDTO{
		ID:            n.ID.Hex(),
		NotifyType:    n.NotifyType,
		Title:         n.Title,
		Body:          n.Body,
		Priority:      n.Priority,
		Category:      n.Category,
		RelatedUserID: n.RelatedUserID,
		ProjectID:     n.RelatedProjectID,
		EventID:       n.RelatedEventID,
		AchievementID: n.RelatedAchievementID,
		MessageID:     n.RelatedMessageID,
		IsRead:        n.IsRead,
		ReadAt:        n.ReadAt,
		IsArchived:    n.IsArchived,
		CreatedAt:     n.CreatedAt,
		ExpiresAt:     n.ExpiresAt,
	}
	if n.Action != nil {
		action := &dto.NotificationActionDTO{}
		_ = copier.Copy(action, n.Action)
		notifyDTO.Action = action
	}
	return notifyDTO
}
