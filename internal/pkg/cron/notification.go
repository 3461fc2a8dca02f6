package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/notification"
)

const JobPurgeReadNotifications = "purge_read_notifications"

// NotificationJobs removes read notifications past their retention
type NotificationJobs struct {
	notificationService notification.Service
	retention           time.Duration
}

func NewNotificationJobs(notificationService notification.Service, retention time.Duration) *NotificationJobs {
	return &NotificationJobs{
		notificationService: notificationService,
		retention:           retention,
	}
}

func (j *NotificationJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(JobPurgeReadNotifications, 24*time.Hour, j.PurgeReadNotifications)
}

func (j *NotificationJobs) PurgeReadNotifications(ctx context.Context) error {
	deleted, err := j.notificationService.Purge(ctx, j.retention)
	if err != nil {
		return err
	}
	if deleted > 0 {
		slog.Info("Cron: read notifications purged", "count", deleted, "retention", j.retention)
	}
	return nil
}
