package notification

import (
	"context"
	"time"
)

// Service defines the notification service interface
type Service interface {
	// Queue notification (async processing via background workers)
	QueueNotification(ctx context.Context, req CreateNotificationRequest) error
	QueueBulkNotification(ctx context.Context, reqs []CreateNotificationRequest) error

	// Direct operations
	GetNotifications(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, userID string, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context, userID string) error

	// Purge deletes read notifications older than retention
	Purge(ctx context.Context, retention time.Duration) (int64, error)

	// Live stream
	Subscribe(ctx context.Context, userID string) (<-chan StreamEvent, func())

	// Lifecycle
	Stop()
}
