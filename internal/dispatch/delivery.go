package dispatch

import (
	"context"
	"fmt"

	"github.com/riverqueue/river"
	"go.uber.org/zap"

	"github.com/vaskito85/buscador-precios/internal/pipeline"
	"github.com/vaskito85/buscador-precios/pkg/domain"
	"github.com/vaskito85/buscador-precios/pkg/logger"
	"github.com/vaskito85/buscador-precios/pkg/notifier"
	"github.com/vaskito85/buscador-precios/pkg/storage"
)

// DeliveryWorker is a River worker that delivers one notification per job.
// Delivery is at-least-once: a crash between Deliver and the delivered mark
// re-runs the job, and the Deliverer is expected to tolerate that.
type DeliveryWorker struct {
	river.WorkerDefaults[pipeline.DeliverJobArgs]

	storage   storage.Storage
	deliverer notifier.Deliverer
}

// NewDeliveryWorker constructs a DeliveryWorker using the provided storage and
// delivery transport.
func NewDeliveryWorker(st storage.Storage, deliverer notifier.Deliverer) *DeliveryWorker {
	return &DeliveryWorker{
		storage:   st,
		deliverer: deliverer,
	}
}

// Work executes a single delivery job. A notification that no longer exists
// cancels the job; one already marked delivered completes without
// redelivering.
func (w *DeliveryWorker) Work(ctx context.Context, job *river.Job[pipeline.DeliverJobArgs]) error {
	ctx = logger.WithFields(ctx,
		zap.Int64("jobID", job.ID),
		zap.String("notificationId", job.Args.NotificationID.String()))

	notification, err := w.storage.NotificationByID(ctx, domain.NotificationID(job.Args.NotificationID))
	if err != nil {
		return fmt.Errorf("could not fetch notification: %w", err)
	}
	if notification == nil {
		logger.Warn(ctx, "notification vanished before delivery")

		return river.JobCancel(fmt.Errorf("notification not found")) //nolint: wrapcheck
	}
	if notification.Delivered {
		return nil
	}

	if err := w.deliverer.Deliver(ctx, *notification); err != nil {
		logger.Error(ctx, "error delivering notification", zap.Error(err))

		return fmt.Errorf("could not deliver notification: %w", err)
	}

	if err := w.storage.MarkNotificationDelivered(ctx, notification.ID); err != nil {
		return fmt.Errorf("could not mark notification delivered: %w", err)
	}

	logger.Info(ctx, "notification delivered")

	return nil
}
