// Package notifier defines the delivery collaborator interface. The pipeline
// only materializes notification records; handing them to the user over push
// or email is the job of a Deliverer implementation living outside this
// service. The log deliverer here is the development stand-in.
//
//go:generate mockgen -package mocknotifier -source=notifier.go -destination=mock/mocknotifier.go *
package notifier

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vaskito85/buscador-precios/pkg/domain"
	"github.com/vaskito85/buscador-precios/pkg/logger"
)

// Deliverer hands an emitted notification to its recipient. Implementations
// must be safe for concurrent use; the dispatch worker may call Deliver from
// multiple goroutines. A nil error means the notification can be marked
// delivered; errors are retried by the dispatch worker.
type Deliverer interface {
	Deliver(ctx context.Context, notification domain.Notification) error
}

// LogDeliverer is a Deliverer that only writes the notification to the
// structured log. Used in development and as a safe default when no real
// transport is configured.
type LogDeliverer struct{}

// Deliver implements Deliverer by logging the notification.
func (LogDeliverer) Deliver(ctx context.Context, n domain.Notification) error {
	logger.Info(ctx, "delivering notification",
		zap.String("notificationId", uuid.UUID(n.ID).String()),
		zap.String("userId", uuid.UUID(n.UserID).String()),
		zap.String("alertId", uuid.UUID(n.AlertID).String()),
		zap.String("sightingId", uuid.UUID(n.SightingID).String()),
	)

	return nil
}
