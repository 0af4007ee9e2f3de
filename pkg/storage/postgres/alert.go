package postgres

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/vaskito85/buscador-precios/pkg/domain"
)

const (
	alertsTable = "alerts"
)

// ActiveAlertsByProduct returns all active alerts for the product in creation order.
func (p *PgSQL) ActiveAlertsByProduct(ctx context.Context, productID domain.ProductID) ([]domain.Alert, error) {
	var rows []PgAlert
	if err := p.Builder.From(alertsTable).
		Where(
			goqu.I("product_id").Eq(uuid.UUID(productID)),
			goqu.I("active").IsTrue(),
		).
		Order(goqu.I("created_at").Asc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch active alerts from pg: %w", err)
	}

	return pgAlertsToDomain(rows), nil
}

// StoreAlert inserts a new alert and returns the stored row.
func (p *PgSQL) StoreAlert(ctx context.Context, alert domain.Alert) (*domain.Alert, error) {
	var row PgAlert
	row.FromDomain(alert)

	var result PgAlert
	found, err := p.Builder.Insert(alertsTable).
		Rows(row).
		Returning(&PgAlert{}).
		Executor().ScanStructContext(ctx, &result)
	if err != nil {
		return nil, fmt.Errorf("could not store alert into pg: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("could not store alert into pg: no row returned")
	}

	return result.ToDomain(), nil
}

// DeactivateAlert sets active = false for the user's alert, returning the
// updated row or nil when the alert does not exist or belongs to someone else.
func (p *PgSQL) DeactivateAlert(ctx context.Context, userID domain.UserID, id domain.AlertID) (*domain.Alert, error) {
	var row PgAlert
	found, err := p.Builder.Update(alertsTable).
		Set(goqu.Record{"active": false}).
		Where(
			goqu.I("id").Eq(uuid.UUID(id)),
			goqu.I("user_id").Eq(uuid.UUID(userID)),
		).Returning(&PgAlert{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not deactivate alert in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// UserAlerts returns all alerts owned by the user, newest first.
func (p *PgSQL) UserAlerts(ctx context.Context, userID domain.UserID) ([]domain.Alert, error) {
	var rows []PgAlert
	if err := p.Builder.From(alertsTable).
		Where(goqu.I("user_id").Eq(uuid.UUID(userID))).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch user alerts from pg: %w", err)
	}

	return pgAlertsToDomain(rows), nil
}
