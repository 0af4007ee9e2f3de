package storage

import (
	"context"

	"github.com/vaskito85/buscador-precios/pkg/domain"
)

// AlertStorage defines persistence operations for price alerts. The ingestion
// pipeline only reads alerts; writes come from the user-management surface.
type AlertStorage interface {
	// ActiveAlertsByProduct returns every active alert watching the given
	// product, in creation order.
	ActiveAlertsByProduct(ctx context.Context, productID domain.ProductID) ([]domain.Alert, error)

	// StoreAlert inserts a new alert and returns the stored row.
	StoreAlert(ctx context.Context, alert domain.Alert) (*domain.Alert, error)

	// DeactivateAlert sets active = false for the given alert owned by the
	// given user. Returns the updated alert, or nil if no such alert exists.
	DeactivateAlert(ctx context.Context, userID domain.UserID, id domain.AlertID) (*domain.Alert, error)

	// UserAlerts returns all alerts owned by the user, newest first.
	UserAlerts(ctx context.Context, userID domain.UserID) ([]domain.Alert, error)
}
