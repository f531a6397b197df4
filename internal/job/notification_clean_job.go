package job

import (
	mongodb "Nexus/internal/pkg/mongo"
	"context"
	log "log/slog"
	"time"
)

// NotificationCleanJob 物理清理已过期的通知
type NotificationCleanJob struct {
	notifyRepo mongodb.NotificationRepo
}

func NewNotificationCleanJob(notifyRepo mongodb.NotificationRepo) *NotificationCleanJob {
	return &NotificationCleanJob{notifyRepo: notifyRepo}
}

func (s *NotificationCleanJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Info("start notification clean job")

	count, err := s.notifyRepo.DeleteExpired(ctx, time.Now())
	if err != nil {
		log.Error("failed to delete expired notifications", "err", err)
		return
	}

	if count > 0 {
		log.Info("notification clean job finished", "cleaned_count", count)
	}
}
