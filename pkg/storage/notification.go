package storage

import (
	"context"

	"github.com/vaskito85/buscador-precios/pkg/domain"
)

// NotificationStorage defines persistence operations for emitted notifications.
// The (alert_id, sighting_id) pair is the idempotency key: inserting the same
// pair twice must be a silent no-op, never a duplicate and never an error.
type NotificationStorage interface {
	// InsertNotification inserts a notification for the (alert, sighting)
	// pair. When the pair already exists the insert is skipped, nil is
	// returned for the notification and inserted is false.
	InsertNotification(ctx context.Context, notification domain.Notification) (n *domain.Notification, inserted bool, err error)

	// NotificationByID fetches a notification by ID. Returns nil when not found.
	NotificationByID(ctx context.Context, id domain.NotificationID) (*domain.Notification, error)

	// MarkNotificationDelivered flips the delivered flag of the notification.
	// Marking an already delivered notification is a no-op.
	MarkNotificationDelivered(ctx context.Context, id domain.NotificationID) error

	// UserNotifications returns the user's notifications, newest first,
	// limited by limit (0 means no limit).
	UserNotifications(ctx context.Context, userID domain.UserID, limit uint) ([]domain.Notification, error)
}
