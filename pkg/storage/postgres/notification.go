package postgres

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/vaskito85/buscador-precios/pkg/domain"
)

const (
	notificationsTable = "notifications"
)

// InsertNotification inserts a notification keyed by (alert_id, sighting_id).
// ON CONFLICT DO NOTHING makes a duplicate attempt a silent no-op: RETURNING
// yields no row, which is reported through inserted = false.
func (p *PgSQL) InsertNotification(ctx context.Context, notification domain.Notification) (*domain.Notification, bool, error) {
	var row PgNotification
	row.FromDomain(notification)

	var result PgNotification
	found, err := p.Builder.Insert(notificationsTable).
		Rows(row).
		OnConflict(goqu.DoNothing()).
		Returning(&PgNotification{}).
		Executor().ScanStructContext(ctx, &result)
	if err != nil {
		return nil, false, fmt.Errorf("could not insert notification into pg: %w", err)
	}
	if !found {
		// pair already notified
		return nil, false, nil
	}

	return result.ToDomain(), true, nil
}

// NotificationByID returns a notification by its ID, or nil when not found.
func (p *PgSQL) NotificationByID(ctx context.Context, id domain.NotificationID) (*domain.Notification, error) {
	var row PgNotification
	found, err := p.Builder.From(notificationsTable).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch notification by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// MarkNotificationDelivered flips the delivered flag. Re-marking is a no-op.
func (p *PgSQL) MarkNotificationDelivered(ctx context.Context, id domain.NotificationID) error {
	_, err := p.Builder.Update(notificationsTable).
		Set(goqu.Record{"delivered": true}).
		Where(
			goqu.I("id").Eq(uuid.UUID(id)),
			goqu.I("delivered").IsFalse(),
		).Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("could not mark notification delivered in pg: %w", err)
	}

	return nil
}

// UserNotifications returns the user's notifications, newest first.
func (p *PgSQL) UserNotifications(ctx context.Context, userID domain.UserID, limit uint) ([]domain.Notification, error) {
	ds := p.Builder.From(notificationsTable).
		Where(goqu.I("user_id").Eq(uuid.UUID(userID))).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc())
	if limit > 0 {
		ds = ds.Limit(limit)
	}

	var rows []PgNotification
	if err := ds.Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch user notifications from pg: %w", err)
	}

	return pgNotificationsToDomain(rows), nil
}
