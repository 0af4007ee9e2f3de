package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vaskito85/buscador-precios/pkg/domain"
)

func TestPgSQL_ActiveAlertsByProduct(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	product := seedProduct(t, pg, "leche 1 l")
	userID := domain.UserID(uuid.New())

	target := 1200.0
	active, err := pg.StoreAlert(ctx, domain.Alert{
		UserID:      userID,
		ProductID:   product.ID,
		TargetPrice: &target,
		RadiusKm:    2,
		Active:      true,
	})
	require.NoError(t, err)

	_, err = pg.StoreAlert(ctx, domain.Alert{
		UserID:    userID,
		ProductID: product.ID,
		RadiusKm:  2,
		Active:    false,
	})
	require.NoError(t, err)

	got, err := pg.ActiveAlertsByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, active.ID, got[0].ID)
	require.NotNil(t, got[0].TargetPrice)
	require.Equal(t, 1200.0, *got[0].TargetPrice)

	// Unknown product has no alerts.
	got, err = pg.ActiveAlertsByProduct(ctx, domain.ProductID(uuid.New()))
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestPgSQL_DeactivateAlert_OwnershipScoped(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	product := seedProduct(t, pg, "leche 1 l")
	owner := domain.UserID(uuid.New())

	alert, err := pg.StoreAlert(ctx, domain.Alert{
		UserID:    owner,
		ProductID: product.ID,
		RadiusKm:  1,
		Active:    true,
	})
	require.NoError(t, err)

	// Another user cannot deactivate it.
	got, err := pg.DeactivateAlert(ctx, domain.UserID(uuid.New()), alert.ID)
	require.NoError(t, err)
	require.Nil(t, got)

	// The owner can.
	got, err = pg.DeactivateAlert(ctx, owner, alert.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.False(t, got.Active)

	// The alert no longer matches.
	active, err := pg.ActiveAlertsByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Empty(t, active)
}

func TestPgSQL_UserAlerts(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	product := seedProduct(t, pg, "leche 1 l")
	userID := domain.UserID(uuid.New())

	for range 2 {
		_, err := pg.StoreAlert(ctx, domain.Alert{
			UserID:    userID,
			ProductID: product.ID,
			RadiusKm:  1,
			Active:    true,
		})
		require.NoError(t, err)
	}

	alerts, err := pg.UserAlerts(ctx, userID)
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	other, err := pg.UserAlerts(ctx, domain.UserID(uuid.New()))
	require.NoError(t, err)
	require.Empty(t, other)
}
