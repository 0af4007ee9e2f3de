package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/vaskito85/buscador-precios/pkg/domain"
	"github.com/vaskito85/buscador-precios/pkg/storage"
)

const (
	sightingsTable = "sightings"
)

// AcquirePairLock takes a transaction-scoped advisory lock derived from the
// (product, store) pair. Two submissions for the same pair serialize here;
// submissions for different pairs proceed concurrently. Must be called inside
// a transaction, otherwise the lock would be held until the session ends.
func (p *PgSQL) AcquirePairLock(ctx context.Context, productID domain.ProductID, storeID domain.StoreID) error {
	if _, ok := p.DB.(*sql.Tx); !ok {
		return storage.ErrNotInTx
	}

	key := uuid.UUID(productID).String() + ":" + uuid.UUID(storeID).String()
	if _, err := p.DB.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return fmt.Errorf("could not acquire pair lock: %w", err)
	}

	return nil
}

// StoreSighting inserts a new sighting and returns the stored row with the
// database-assigned id, created_at and validation flag.
func (p *PgSQL) StoreSighting(ctx context.Context, sighting domain.Sighting) (*domain.Sighting, error) {
	var row PgSighting
	row.FromDomain(sighting)

	var result PgSighting
	found, err := p.Builder.Insert(sightingsTable).
		Rows(row).
		Returning(&PgSighting{}).
		Executor().ScanStructContext(ctx, &result)
	if err != nil {
		return nil, fmt.Errorf("could not store sighting into pg: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("could not store sighting into pg: no row returned")
	}

	return result.ToDomain(), nil
}

// SightingsInWindow returns the sightings selected by the window ordered by
// created_at ascending. Bounds are inclusive on both ends.
func (p *PgSQL) SightingsInWindow(ctx context.Context, window storage.SightingWindow) ([]domain.Sighting, error) {
	w := []goqu.Expression{
		goqu.I("product_id").Eq(uuid.UUID(window.ProductID)),
		goqu.I("store_id").Eq(uuid.UUID(window.StoreID)),
		goqu.I("created_at").Gte(window.From),
		goqu.I("created_at").Lte(window.To),
	}
	if window.Exclude != (domain.SightingID{}) {
		w = append(w, goqu.I("id").Neq(uuid.UUID(window.Exclude)))
	}

	var rows []PgSighting
	if err := p.Builder.From(sightingsTable).
		Where(w...).
		Order(goqu.I("created_at").Asc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch sighting window from pg: %w", err)
	}

	return pgSightingsToDomain(rows), nil
}

// MarkSightingValidated flips the validation flag to true. The WHERE clause
// keeps the transition monotone; re-marking is a no-op.
func (p *PgSQL) MarkSightingValidated(ctx context.Context, id domain.SightingID) error {
	_, err := p.Builder.Update(sightingsTable).
		Set(goqu.Record{"validated": true}).
		Where(
			goqu.I("id").Eq(uuid.UUID(id)),
			goqu.I("validated").IsFalse(),
		).Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("could not mark sighting validated in pg: %w", err)
	}

	return nil
}

// SightingByID returns a sighting by its ID, or nil when not found.
func (p *PgSQL) SightingByID(ctx context.Context, id domain.SightingID) (*domain.Sighting, error) {
	var row PgSighting
	found, err := p.Builder.From(sightingsTable).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch sighting by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// pgStorePriceCount is the flattened row of the latest-price-per-pair query.
type pgStorePriceCount struct {
	PgSighting

	ReportCount int `db:"report_count"`
}

// PriceCountsByStores returns the most recent sighting and total report count
// for every (product, store) pair across the given stores.
func (p *PgSQL) PriceCountsByStores(ctx context.Context, storeIDs []domain.StoreID) ([]storage.StorePriceCount, error) {
	if len(storeIDs) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(storeIDs))
	for _, id := range storeIDs {
		ids = append(ids, uuid.UUID(id))
	}

	// DISTINCT ON keeps the newest row per pair; the window count sees all rows.
	var rows []pgStorePriceCount
	if err := p.Builder.From(sightingsTable).
		Select(
			goqu.L("DISTINCT ON (product_id, store_id) *"),
			goqu.L("COUNT(*) OVER (PARTITION BY product_id, store_id)").As("report_count"),
		).
		Where(goqu.I("store_id").In(ids)).
		Order(goqu.I("product_id").Asc(), goqu.I("store_id").Asc(), goqu.I("created_at").Desc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch price counts from pg: %w", err)
	}

	out := make([]storage.StorePriceCount, 0, len(rows))
	for i := range rows {
		out = append(out, storage.StorePriceCount{
			Latest: *rows[i].PgSighting.ToDomain(),
			Count:  rows[i].ReportCount,
		})
	}

	return out, nil
}
