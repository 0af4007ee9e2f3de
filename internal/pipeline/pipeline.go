// Package pipeline implements the sighting ingestion pipeline: each
// submission is persisted, checked against the corroboration quorum, and, when
// validated, fanned out to matching alerts as notifications. The whole unit
// runs in a single database transaction so readers never observe partial
// results.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/vaskito85/buscador-precios/internal/config"
	"github.com/vaskito85/buscador-precios/pkg/domain"
	"github.com/vaskito85/buscador-precios/pkg/geo"
	"github.com/vaskito85/buscador-precios/pkg/logger"
	"github.com/vaskito85/buscador-precios/pkg/metrics"
	"github.com/vaskito85/buscador-precios/pkg/serrors"
	"github.com/vaskito85/buscador-precios/pkg/storage"
)

// Options configure the validation quorum and the retry behavior of the
// submission transaction. These settings are typically derived from
// application configuration.
type Options struct {
	// QuorumWindow is the trailing period in which prior reports for the same
	// (product, store) pair can corroborate a new submission.
	QuorumWindow time.Duration
	// QuorumThreshold is the number of corroborating prior reports required to
	// validate a submission.
	QuorumThreshold int
	// PriceTolerance is the relative deviation under which a prior price
	// counts as corroborating.
	PriceTolerance float64
	// SubmitRetries is how many times the transactional unit is re-run after
	// a transient storage failure before giving up.
	SubmitRetries int
	// DispatchMaxAttempts is the retry budget handed to delivery jobs.
	DispatchMaxAttempts int
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		QuorumWindow:        cfg.Pipeline.QuorumWindow,
		QuorumThreshold:     cfg.Pipeline.QuorumThreshold,
		PriceTolerance:      cfg.Pipeline.PriceTolerance,
		SubmitRetries:       cfg.Pipeline.SubmitRetries,
		DispatchMaxAttempts: cfg.Dispatch.MaxAttempts,
	}
}

// pipeline is the concrete implementation of the Pipeline interface.
type pipeline struct {
	options Options
	storage storage.Storage
}

// New creates a new Pipeline instance backed by the provided storage and
// configured with the given options.
func New(storage storage.Storage, options Options) Pipeline {
	return &pipeline{
		options: options,
		storage: storage,
	}
}

// Submit processes one price observation end to end. On success the returned
// result reflects the committed state: the sighting as stored (validated or
// not) and any notifications emitted for it. A transient storage failure
// retries the whole unit from scratch; nothing from a failed attempt is
// visible because the attempt's transaction rolled back.
func (p *pipeline) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if req.Price <= 0 {
		return nil, serrors.With(serrors.ErrBadRequest, "price must be positive")
	}
	if !req.Location.Valid() {
		return nil, serrors.With(serrors.ErrBadRequest, "invalid coordinates")
	}

	start := time.Now()
	defer func() {
		metrics.SubmitDuration.Observe(time.Since(start).Seconds())
	}()

	var result *SubmitResult
	var err error
	for attempt := 0; ; attempt++ {
		result, err = p.submitOnce(ctx, req)
		if err == nil || !isTransient(err) || attempt >= p.options.SubmitRetries {
			break
		}

		metrics.SubmitRetries.Inc()
		logger.Warn(ctx, "retrying submission after transient failure",
			zap.Error(err),
			zap.Int("attempt", attempt+1))
	}
	if err != nil {
		metrics.SightingsSubmitted.WithLabelValues(metrics.OutcomeFailed).Inc()
		if isTransient(err) {
			return nil, serrors.Wrap(serrors.ErrUnavailable, err, "submission retries exhausted")
		}

		return nil, err
	}

	if result.Sighting.Validated {
		metrics.SightingsSubmitted.WithLabelValues(metrics.OutcomeValidated).Inc()
	} else {
		metrics.SightingsSubmitted.WithLabelValues(metrics.OutcomeRejected).Inc()
	}
	metrics.NotificationsEmitted.Add(float64(len(result.Notifications)))

	return result, nil
}

// submitOnce runs a single attempt of the submission transaction.
func (p *pipeline) submitOnce(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	var result SubmitResult

	if err := p.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		// serialize concurrent submissions for the pair so the quorum count
		// and the validation decision happen against a stable set of rows.
		if err := tx.AcquirePairLock(ctx, req.ProductID, req.StoreID); err != nil {
			return fmt.Errorf("could not acquire pair lock: %w", err)
		}

		store, err := p.resolveRefs(ctx, tx, req)
		if err != nil {
			return err
		}

		stored, err := tx.StoreSighting(ctx, domain.Sighting{
			UserID:    req.UserID,
			ProductID: req.ProductID,
			StoreID:   req.StoreID,
			Price:     req.Price,
			Location:  req.Location,
		})
		if err != nil {
			return fmt.Errorf("could not store sighting: %w", err)
		}
		result.Sighting = *stored

		prior, err := tx.SightingsInWindow(ctx, storage.SightingWindow{
			ProductID: req.ProductID,
			StoreID:   req.StoreID,
			From:      stored.CreatedAt.Add(-p.options.QuorumWindow),
			To:        stored.CreatedAt,
			Exclude:   stored.ID,
		})
		if err != nil {
			return fmt.Errorf("could not fetch prior sightings: %w", err)
		}

		count := CountCorroborating(prior, stored.Price, p.options.PriceTolerance)
		if !MeetsQuorum(count, p.options.QuorumThreshold) {
			// not enough backing yet; the sighting stays stored and may
			// corroborate future submissions.
			return nil
		}

		if err := tx.MarkSightingValidated(ctx, stored.ID); err != nil {
			return fmt.Errorf("could not mark sighting validated: %w", err)
		}
		result.Sighting.Validated = true

		notifications, err := p.fanOut(ctx, tx, result.Sighting, store.Location)
		if err != nil {
			return err
		}
		result.Notifications = notifications

		return nil
	}); err != nil {
		return nil, fmt.Errorf("could not submit sighting: %w", err)
	}

	return &result, nil
}

// resolveRefs checks that the referenced product and store exist and returns
// the store, whose location anchors the alert geofence.
func (p *pipeline) resolveRefs(ctx context.Context, tx storage.AllStorage, req SubmitRequest) (*domain.Store, error) {
	product, err := tx.ProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("could not fetch product: %w", err)
	}
	if product == nil {
		return nil, serrors.With(serrors.ErrNotFound, "product not found")
	}

	store, err := tx.StoreByID(ctx, req.StoreID)
	if err != nil {
		return nil, fmt.Errorf("could not fetch store: %w", err)
	}
	if store == nil {
		return nil, serrors.With(serrors.ErrNotFound, "store not found")
	}

	return store, nil
}

// fanOut emits one notification per matching active alert and enqueues a
// delivery job for each notification actually inserted. The (alert, sighting)
// unique key makes re-running the fan-out for the same sighting a no-op.
func (p *pipeline) fanOut(ctx context.Context,
	tx storage.AllStorage,
	sighting domain.Sighting,
	storeLocation geo.Point) ([]domain.Notification, error) {
	alerts, err := tx.ActiveAlertsByProduct(ctx, sighting.ProductID)
	if err != nil {
		return nil, fmt.Errorf("could not fetch active alerts: %w", err)
	}

	var emitted []domain.Notification
	for _, alert := range MatchAlerts(alerts, sighting, storeLocation) {
		notification, inserted, err := tx.InsertNotification(ctx, domain.Notification{
			UserID:     alert.UserID,
			AlertID:    alert.ID,
			SightingID: sighting.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("could not insert notification: %w", err)
		}
		if !inserted {
			continue
		}

		if _, err := tx.AddJob(ctx, DeliverJobArgs{
			NotificationID: uuid.UUID(notification.ID),
			maxAttempts:    p.options.DispatchMaxAttempts,
		}, nil); err != nil {
			return nil, fmt.Errorf("could not add delivery job: %w", err)
		}

		emitted = append(emitted, *notification)
	}

	return emitted, nil
}

// UserNotifications returns the user's notifications, newest first.
func (p *pipeline) UserNotifications(ctx context.Context,
	userID domain.UserID,
	limit uint) ([]domain.Notification, error) {
	notifications, err := p.storage.UserNotifications(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("could not get user notifications: %w", err)
	}

	return notifications, nil
}

// isTransient reports whether the submission transaction should be re-run.
// Serialization failures and deadlocks are safe to retry because the failed
// attempt rolled back completely.
func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}

	return false
}
