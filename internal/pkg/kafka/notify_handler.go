package kafka

import (
	"Nexus/internal/api/dto"
	"Nexus/internal/service"
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	pkgerrors "github.com/pkg/errors"
)

type NotifyHandler struct {
	notifyService service.NotificationService
}

func NewNotifyHandler(notifyService service.NotificationService) *NotifyHandler {
	return &NotifyHandler{notifyService: notifyService}
}

func (s *NotifyHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("notify consumer setup")
	return nil
}

func (s *NotifyHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("notify consumer cleanup")
	return nil
}

func (s *NotifyHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-notify consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-notify process batch error", "err", err)
		return err
	}
	log.Info("topic-notify consume claim end")
	return nil
}

func (s *NotifyHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event NotifyEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Warn("invalid notify event format", "msg_key", string(msg.Key), "err", err)
		return nil
	}

	req := &dto.CreateNotificationReq{
		OwnerID:       event.OwnerID,
		NotifyType:    event.NotifyType,
		Title:         event.Title,
		Body:          event.Body,
		Priority:      event.Priority,
		RelatedUserID: event.RelatedUserID,
		ProjectID:     event.ProjectID,
		EventID:       event.EventID,
		AchievementID: event.AchievementID,
		MessageID:     event.MessageID,
		ExpiresAt:     event.ExpiresAt,
	}
	if event.Action != nil {
		req.Action = &dto.NotificationActionDTO{
			ActionType:       event.Action.ActionType,
			URL:              event.Action.URL,
			Text:             event.Action.Text,
			RequiresResponse: event.Action.RequiresResponse,
		}
	}

	_, err := s.notifyService.CreateNotification(ctx, req)
	if err != nil {
		// 非法事件直接丢弃，只有落库失败才留给重试
		if !errors.Is(err, service.UnExpectedError) {
			log.Warn("drop invalid notify event", "msg_key", string(msg.Key), "err", err)
			return nil
		}
		return pkgerrors.Wrap(err, "create notification from event")
	}
	return nil
}
