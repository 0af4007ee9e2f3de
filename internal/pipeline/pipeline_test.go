package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vaskito85/buscador-precios/internal/pipeline"
	"github.com/vaskito85/buscador-precios/pkg/domain"
	"github.com/vaskito85/buscador-precios/pkg/geo"
	"github.com/vaskito85/buscador-precios/pkg/logger"
	"github.com/vaskito85/buscador-precios/pkg/serrors"
	"github.com/vaskito85/buscador-precios/pkg/storage/storagetest"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

func defaultOptions() pipeline.Options {
	return pipeline.Options{
		QuorumWindow:        14 * 24 * time.Hour,
		QuorumThreshold:     3,
		PriceTolerance:      0.01,
		SubmitRetries:       3,
		DispatchMaxAttempts: 5,
	}
}

// seedPair creates one product and one store at the origin.
func seedPair(t *testing.T, st *storagetest.Fake) (domain.ProductID, domain.StoreID) {
	t.Helper()

	product, err := st.StoreProduct(context.Background(), domain.Product{Name: "leche 1 l", Currency: "ARS"})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	store, err := st.StoreStore(context.Background(), domain.Store{
		Name:     "mercado central",
		Location: geo.Point{Lat: 0, Lon: 0},
	})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}

	return product.ID, store.ID
}

func submit(t *testing.T, p pipeline.Pipeline, productID domain.ProductID,
	storeID domain.StoreID, price float64) *pipeline.SubmitResult {
	t.Helper()

	res, err := p.Submit(context.Background(), pipeline.SubmitRequest{
		UserID:    domain.UserID(uuid.New()),
		ProductID: productID,
		StoreID:   storeID,
		Price:     price,
		Location:  geo.Point{Lat: 0, Lon: 0},
	})
	if err != nil {
		t.Fatalf("unexpected submit error: %v", err)
	}

	return res
}

func TestSubmitQuorumFlow(t *testing.T) {
	st := storagetest.New()
	p := pipeline.New(st, defaultOptions())
	productID, storeID := seedPair(t, st)

	// an alert watching the product from a user nearby
	target := 101.0
	alertUser := domain.UserID(uuid.New())
	alert, err := st.StoreAlert(context.Background(), domain.Alert{
		UserID:      alertUser,
		ProductID:   productID,
		TargetPrice: &target,
		RadiusKm:    5,
		Active:      true,
	})
	if err != nil {
		t.Fatalf("seed alert: %v", err)
	}

	// the first three close-by prices stay unvalidated: 0, 1 and 2 prior
	// corroborating reports respectively.
	for i, price := range []float64{100, 100.5, 99.8} {
		res := submit(t, p, productID, storeID, price)
		if res.Sighting.Validated {
			t.Fatalf("submission %d validated with only %d prior reports", i+1, i)
		}
		if len(res.Notifications) != 0 {
			t.Fatalf("submission %d emitted notifications before validation", i+1)
		}
		st.Now = st.Now.Add(time.Hour)
	}

	// the fourth report has three corroborating priors and validates
	res := submit(t, p, productID, storeID, 100.2)
	if !res.Sighting.Validated {
		t.Fatal("fourth corroborated submission must validate")
	}
	if len(res.Notifications) != 1 {
		t.Fatalf("emitted %d notifications, want 1", len(res.Notifications))
	}

	n := res.Notifications[0]
	if n.AlertID != alert.ID || n.SightingID != res.Sighting.ID || n.UserID != alertUser {
		t.Fatal("notification must reference the matched alert, the sighting and the alert owner")
	}

	// each emitted notification gets exactly one delivery job
	if len(st.Jobs) != 1 {
		t.Fatalf("enqueued %d delivery jobs, want 1", len(st.Jobs))
	}
	if st.Jobs[0].Kind() != (pipeline.DeliverJobArgs{}).Kind() {
		t.Fatalf("enqueued job kind %q, want a delivery job", st.Jobs[0].Kind())
	}

	// the earlier sightings stay unvalidated; validation is not retroactive
	for _, s := range st.Sightings[:3] {
		if s.Validated {
			t.Fatal("prior sightings must not be validated retroactively")
		}
	}
}

func TestSubmitOutlierPriceNotValidated(t *testing.T) {
	st := storagetest.New()
	p := pipeline.New(st, defaultOptions())
	productID, storeID := seedPair(t, st)

	for _, price := range []float64{100, 100, 100} {
		submit(t, p, productID, storeID, price)
		st.Now = st.Now.Add(time.Hour)
	}

	res := submit(t, p, productID, storeID, 150)
	if res.Sighting.Validated {
		t.Fatal("an outlier price must not be validated by unrelated reports")
	}
}

func TestSubmitWindowExcludesOldReports(t *testing.T) {
	st := storagetest.New()
	p := pipeline.New(st, defaultOptions())
	productID, storeID := seedPair(t, st)

	for _, price := range []float64{100, 100, 100} {
		submit(t, p, productID, storeID, price)
	}

	// push the clock past the trailing window
	st.Now = st.Now.Add(15 * 24 * time.Hour)

	res := submit(t, p, productID, storeID, 100)
	if res.Sighting.Validated {
		t.Fatal("reports older than the window must not count toward the quorum")
	}
}

func TestSubmitAlertOutsideRadiusNotNotified(t *testing.T) {
	st := storagetest.New()
	p := pipeline.New(st, defaultOptions())
	productID, storeID := seedPair(t, st)

	if _, err := st.StoreAlert(context.Background(), domain.Alert{
		UserID:    domain.UserID(uuid.New()),
		ProductID: productID,
		RadiusKm:  1,
		Active:    true,
	}); err != nil {
		t.Fatalf("seed alert: %v", err)
	}

	for _, price := range []float64{100, 100, 100} {
		submit(t, p, productID, storeID, price)
		st.Now = st.Now.Add(time.Hour)
	}

	// validated, but the sighting is roughly 1.2km from the store
	res, err := p.Submit(context.Background(), pipeline.SubmitRequest{
		UserID:    domain.UserID(uuid.New()),
		ProductID: productID,
		StoreID:   storeID,
		Price:     100,
		Location:  geo.Point{Lat: 0.0108, Lon: 0},
	})
	if err != nil {
		t.Fatalf("unexpected submit error: %v", err)
	}
	if !res.Sighting.Validated {
		t.Fatal("the corroborated submission must validate")
	}
	if len(res.Notifications) != 0 {
		t.Fatal("an alert with a 1km radius must not match a sighting 1.2km away")
	}
}

func TestSubmitRetriesTransientFailure(t *testing.T) {
	st := storagetest.New()
	p := pipeline.New(st, defaultOptions())
	productID, storeID := seedPair(t, st)

	st.FailStoreSighting = 1
	st.StoreSightingErr = &pgconn.PgError{Code: "40001"}

	res := submit(t, p, productID, storeID, 100)
	if res.Sighting.Price != 100 {
		t.Fatalf("stored price %v, want 100", res.Sighting.Price)
	}
	if len(st.Sightings) != 1 {
		t.Fatalf("stored %d sightings, want exactly 1 after a retried attempt", len(st.Sightings))
	}
	// each attempt serializes on the pair lock again
	if st.LockCalls != 2 {
		t.Fatalf("acquired the pair lock %d times, want 2", st.LockCalls)
	}
}

func TestSubmitGivesUpAfterRetryBudget(t *testing.T) {
	st := storagetest.New()
	opts := defaultOptions()
	opts.SubmitRetries = 2
	p := pipeline.New(st, opts)
	productID, storeID := seedPair(t, st)

	st.FailStoreSighting = 10
	st.StoreSightingErr = &pgconn.PgError{Code: "40001"}

	_, err := p.Submit(context.Background(), pipeline.SubmitRequest{
		UserID:    domain.UserID(uuid.New()),
		ProductID: productID,
		StoreID:   storeID,
		Price:     100,
		Location:  geo.Point{Lat: 0, Lon: 0},
	})
	if err == nil {
		t.Fatal("expected an error once the retry budget is exhausted")
	}
	if !errors.Is(err, serrors.ErrUnavailable) {
		t.Fatalf("exhausted retries must surface as unavailable, got %v", err)
	}
	// initial attempt plus two retries
	if st.LockCalls != 3 {
		t.Fatalf("acquired the pair lock %d times, want 3", st.LockCalls)
	}
}

func TestSubmitNonTransientFailureNotRetried(t *testing.T) {
	st := storagetest.New()
	p := pipeline.New(st, defaultOptions())
	productID, storeID := seedPair(t, st)

	st.FailStoreSighting = 1
	st.StoreSightingErr = errors.New("disk on fire")

	_, err := p.Submit(context.Background(), pipeline.SubmitRequest{
		UserID:    domain.UserID(uuid.New()),
		ProductID: productID,
		StoreID:   storeID,
		Price:     100,
		Location:  geo.Point{Lat: 0, Lon: 0},
	})
	if err == nil {
		t.Fatal("expected the storage error to propagate")
	}
	if st.LockCalls != 1 {
		t.Fatalf("acquired the pair lock %d times, want 1", st.LockCalls)
	}
}

func TestSubmitRejectsBadInput(t *testing.T) {
	st := storagetest.New()
	p := pipeline.New(st, defaultOptions())
	productID, storeID := seedPair(t, st)

	cases := []struct {
		name string
		req  pipeline.SubmitRequest
	}{
		{
			name: "zero price",
			req: pipeline.SubmitRequest{
				ProductID: productID, StoreID: storeID,
				Price: 0, Location: geo.Point{Lat: 0, Lon: 0},
			},
		},
		{
			name: "negative price",
			req: pipeline.SubmitRequest{
				ProductID: productID, StoreID: storeID,
				Price: -5, Location: geo.Point{Lat: 0, Lon: 0},
			},
		},
		{
			name: "latitude out of range",
			req: pipeline.SubmitRequest{
				ProductID: productID, StoreID: storeID,
				Price: 10, Location: geo.Point{Lat: 95, Lon: 0},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.Submit(context.Background(), tc.req)
			if !errors.Is(err, serrors.ErrBadRequest) {
				t.Fatalf("expected a bad request error, got %v", err)
			}
		})
	}

	if len(st.Sightings) != 0 {
		t.Fatal("rejected submissions must not store anything")
	}
}

func TestSubmitUnknownRefs(t *testing.T) {
	st := storagetest.New()
	p := pipeline.New(st, defaultOptions())
	productID, storeID := seedPair(t, st)

	_, err := p.Submit(context.Background(), pipeline.SubmitRequest{
		UserID:    domain.UserID(uuid.New()),
		ProductID: domain.ProductID(uuid.New()),
		StoreID:   storeID,
		Price:     10,
		Location:  geo.Point{Lat: 0, Lon: 0},
	})
	if !errors.Is(err, serrors.ErrNotFound) {
		t.Fatalf("expected not found for unknown product, got %v", err)
	}

	_, err = p.Submit(context.Background(), pipeline.SubmitRequest{
		UserID:    domain.UserID(uuid.New()),
		ProductID: productID,
		StoreID:   domain.StoreID(uuid.New()),
		Price:     10,
		Location:  geo.Point{Lat: 0, Lon: 0},
	})
	if !errors.Is(err, serrors.ErrNotFound) {
		t.Fatalf("expected not found for unknown store, got %v", err)
	}
}

func TestUserNotifications(t *testing.T) {
	st := storagetest.New()
	p := pipeline.New(st, defaultOptions())
	productID, storeID := seedPair(t, st)

	userID := domain.UserID(uuid.New())
	if _, err := st.StoreAlert(context.Background(), domain.Alert{
		UserID:    userID,
		ProductID: productID,
		RadiusKm:  5,
		Active:    true,
	}); err != nil {
		t.Fatalf("seed alert: %v", err)
	}

	for _, price := range []float64{100, 100, 100, 100} {
		submit(t, p, productID, storeID, price)
		st.Now = st.Now.Add(time.Hour)
	}

	notifications, err := p.UserNotifications(context.Background(), userID, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notifications))
	}

	other, err := p.UserNotifications(context.Background(), domain.UserID(uuid.New()), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(other) != 0 {
		t.Fatal("another user must not see the alert owner's notifications")
	}
}
