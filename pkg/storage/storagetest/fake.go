// Package storagetest provides an in-memory storage.Storage implementation
// for unit tests that exercise services without a database. State lives in
// exported fields so tests can seed and inspect it directly.
package storagetest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river"

	"github.com/vaskito85/buscador-precios/pkg/domain"
	"github.com/vaskito85/buscador-precios/pkg/storage"
)

// Fake is an in-memory storage.Storage. WithTx runs the callback directly
// against the same state; tests that simulate a failed transaction should
// fail before mutating state so there is nothing to roll back.
type Fake struct {
	// Now is the fake clock assigned to created_at on inserts. Tests advance
	// it to control the quorum window.
	Now time.Time

	Products      map[domain.ProductID]domain.Product
	Stores        map[domain.StoreID]domain.Store
	Sightings     []domain.Sighting
	Alerts        []domain.Alert
	Notifications []domain.Notification
	Jobs          []river.JobArgs

	// LockCalls counts AcquirePairLock invocations, one per attempt.
	LockCalls int
	// FailStoreSighting makes the next N StoreSighting calls fail with
	// StoreSightingErr before touching state.
	FailStoreSighting int
	StoreSightingErr  error
}

// New returns an empty Fake with a fixed clock.
func New() *Fake {
	return &Fake{
		Now:      time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Products: make(map[domain.ProductID]domain.Product),
		Stores:   make(map[domain.StoreID]domain.Store),
	}
}

func (f *Fake) AcquirePairLock(_ context.Context, _ domain.ProductID, _ domain.StoreID) error {
	f.LockCalls++

	return nil
}

func (f *Fake) StoreSighting(_ context.Context, sighting domain.Sighting) (*domain.Sighting, error) {
	if f.FailStoreSighting > 0 {
		f.FailStoreSighting--

		return nil, f.StoreSightingErr
	}

	sighting.ID = domain.SightingID(uuid.New())
	sighting.Validated = false
	sighting.CreatedAt = f.Now
	f.Sightings = append(f.Sightings, sighting)

	return &sighting, nil
}

func (f *Fake) SightingsInWindow(_ context.Context, window storage.SightingWindow) ([]domain.Sighting, error) {
	var out []domain.Sighting
	for _, s := range f.Sightings {
		if s.ProductID != window.ProductID || s.StoreID != window.StoreID {
			continue
		}
		if s.ID == window.Exclude {
			continue
		}
		if s.CreatedAt.Before(window.From) || s.CreatedAt.After(window.To) {
			continue
		}
		out = append(out, s)
	}

	return out, nil
}

func (f *Fake) MarkSightingValidated(_ context.Context, id domain.SightingID) error {
	for i := range f.Sightings {
		if f.Sightings[i].ID == id {
			f.Sightings[i].Validated = true
		}
	}

	return nil
}

func (f *Fake) SightingByID(_ context.Context, id domain.SightingID) (*domain.Sighting, error) {
	for _, s := range f.Sightings {
		if s.ID == id {
			return &s, nil
		}
	}

	return nil, nil
}

// PriceCountsByStores mirrors the DISTINCT ON query of the postgres
// implementation: the latest sighting per (product, store) pair plus the
// total report count for the pair.
func (f *Fake) PriceCountsByStores(_ context.Context, storeIDs []domain.StoreID) ([]storage.StorePriceCount, error) {
	wanted := make(map[domain.StoreID]struct{}, len(storeIDs))
	for _, id := range storeIDs {
		wanted[id] = struct{}{}
	}

	type pair struct {
		product domain.ProductID
		store   domain.StoreID
	}
	latest := make(map[pair]domain.Sighting)
	counts := make(map[pair]int)
	var order []pair
	for _, s := range f.Sightings {
		if _, ok := wanted[s.StoreID]; !ok {
			continue
		}
		k := pair{product: s.ProductID, store: s.StoreID}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
		if cur, seen := latest[k]; !seen || s.CreatedAt.After(cur.CreatedAt) {
			latest[k] = s
		}
	}

	out := make([]storage.StorePriceCount, 0, len(order))
	for _, k := range order {
		out = append(out, storage.StorePriceCount{Latest: latest[k], Count: counts[k]})
	}

	return out, nil
}

func (f *Fake) ActiveAlertsByProduct(_ context.Context, productID domain.ProductID) ([]domain.Alert, error) {
	var out []domain.Alert
	for _, a := range f.Alerts {
		if a.ProductID == productID && a.Active {
			out = append(out, a)
		}
	}

	return out, nil
}

func (f *Fake) StoreAlert(_ context.Context, alert domain.Alert) (*domain.Alert, error) {
	alert.ID = domain.AlertID(uuid.New())
	alert.CreatedAt = f.Now
	f.Alerts = append(f.Alerts, alert)

	return &alert, nil
}

func (f *Fake) DeactivateAlert(_ context.Context, userID domain.UserID, id domain.AlertID) (*domain.Alert, error) {
	for i := range f.Alerts {
		if f.Alerts[i].ID == id && f.Alerts[i].UserID == userID {
			f.Alerts[i].Active = false
			a := f.Alerts[i]

			return &a, nil
		}
	}

	return nil, nil
}

func (f *Fake) UserAlerts(_ context.Context, userID domain.UserID) ([]domain.Alert, error) {
	var out []domain.Alert
	for _, a := range f.Alerts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}

	return out, nil
}

func (f *Fake) ProductByID(_ context.Context, id domain.ProductID) (*domain.Product, error) {
	if p, ok := f.Products[id]; ok {
		return &p, nil
	}

	return nil, nil
}

func (f *Fake) ProductByNameCurrency(_ context.Context, name, currency string) (*domain.Product, error) {
	for _, p := range f.Products {
		if p.Name == name && p.Currency == currency {
			return &p, nil
		}
	}

	return nil, nil
}

func (f *Fake) StoreProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	product.ID = domain.ProductID(uuid.New())
	product.CreatedAt = f.Now
	f.Products[product.ID] = product

	return &product, nil
}

func (f *Fake) StoreByID(_ context.Context, id domain.StoreID) (*domain.Store, error) {
	if s, ok := f.Stores[id]; ok {
		return &s, nil
	}

	return nil, nil
}

func (f *Fake) StoreStore(_ context.Context, store domain.Store) (*domain.Store, error) {
	store.ID = domain.StoreID(uuid.New())
	store.CreatedAt = f.Now
	f.Stores[store.ID] = store

	return &store, nil
}

func (f *Fake) StoresInBox(_ context.Context, box storage.StoreBox) ([]domain.Store, error) {
	var out []domain.Store
	for _, s := range f.Stores {
		if s.Location.Lat >= box.MinLat && s.Location.Lat <= box.MaxLat &&
			s.Location.Lon >= box.MinLon && s.Location.Lon <= box.MaxLon {
			out = append(out, s)
		}
	}

	return out, nil
}

func (f *Fake) InsertNotification(_ context.Context,
	notification domain.Notification) (*domain.Notification, bool, error) {
	for _, n := range f.Notifications {
		if n.AlertID == notification.AlertID && n.SightingID == notification.SightingID {
			return nil, false, nil
		}
	}

	notification.ID = domain.NotificationID(uuid.New())
	notification.CreatedAt = f.Now
	f.Notifications = append(f.Notifications, notification)

	return &notification, true, nil
}

func (f *Fake) NotificationByID(_ context.Context, id domain.NotificationID) (*domain.Notification, error) {
	for _, n := range f.Notifications {
		if n.ID == id {
			return &n, nil
		}
	}

	return nil, nil
}

func (f *Fake) MarkNotificationDelivered(_ context.Context, id domain.NotificationID) error {
	for i := range f.Notifications {
		if f.Notifications[i].ID == id {
			f.Notifications[i].Delivered = true
		}
	}

	return nil
}

func (f *Fake) UserNotifications(_ context.Context, userID domain.UserID, limit uint) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range f.Notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	if limit > 0 && uint(len(out)) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (f *Fake) AddJob(_ context.Context, args river.JobArgs, _ *river.InsertOpts) (bool, error) {
	f.Jobs = append(f.Jobs, args)

	return true, nil
}

func (f *Fake) Close() error { return nil }

type fakeTx struct{ *Fake }

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

func (f *Fake) Begin(_ context.Context) (storage.TxStorage, error) {
	return fakeTx{f}, nil
}

func (f *Fake) WithTx(_ context.Context, cb func(storage.AllStorage) error) error {
	return cb(f)
}
