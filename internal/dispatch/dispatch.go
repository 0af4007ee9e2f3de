// Package dispatch runs the background delivery of emitted notifications.
// Delivery jobs are enqueued transactionally by the ingestion pipeline; the
// worker here picks them up, hands the notification to a notifier.Deliverer
// and records the delivery.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"go.uber.org/zap/exp/zapslog"

	"github.com/vaskito85/buscador-precios/internal/config"
	"github.com/vaskito85/buscador-precios/pkg/logger"
	"github.com/vaskito85/buscador-precios/pkg/notifier"
	"github.com/vaskito85/buscador-precios/pkg/storage"
)

// Start registers the delivery worker and starts the River client against the
// given pool. The returned client must be stopped by the caller on shutdown.
func Start(ctx context.Context,
	cfg *config.Config,
	dbPool *pgxpool.Pool,
	st storage.Storage,
	deliverer notifier.Deliverer) (*river.Client[pgx.Tx], error) {
	workers := river.NewWorkers()
	river.AddWorker(workers, NewDeliveryWorker(st, deliverer))

	riverClient, err := river.NewClient(riverpgxv5.New(dbPool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: cfg.Dispatch.MaxWorkers},
		},
		Workers: workers,
		Logger:  slog.New(zapslog.NewHandler(logger.Get(ctx).Core())),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	if err := riverClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river queue client: %w", err)
	}

	return riverClient, nil
}
