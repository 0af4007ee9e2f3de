package postgres

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/vaskito85/buscador-precios/pkg/domain"
	"github.com/vaskito85/buscador-precios/pkg/geo"
)

type PgProduct struct {
	ID       uuid.UUID `db:"id" goqu:"skipinsert"`
	Name     string    `db:"name"`
	Currency string    `db:"currency"`

	CreatedAt time.Time `db:"created_at" goqu:"skipinsert"`
}

func (p *PgProduct) ToDomain() *domain.Product {
	return &domain.Product{
		ID:        domain.ProductID(p.ID),
		Name:      p.Name,
		Currency:  p.Currency,
		CreatedAt: p.CreatedAt,
	}
}

func (p *PgProduct) FromDomain(product domain.Product) {
	*p = PgProduct{
		ID:        uuid.UUID(product.ID),
		Name:      product.Name,
		Currency:  product.Currency,
		CreatedAt: product.CreatedAt,
	}
}

type PgStore struct {
	ID      uuid.UUID      `db:"id" goqu:"skipinsert"`
	Name    string         `db:"name"`
	Address sql.NullString `db:"address"`
	Lat     float64        `db:"lat"`
	Lon     float64        `db:"lon"`

	CreatedAt time.Time `db:"created_at" goqu:"skipinsert"`
}

func (p *PgStore) ToDomain() *domain.Store {
	return &domain.Store{
		ID:        domain.StoreID(p.ID),
		Name:      p.Name,
		Address:   p.Address.String,
		Location:  geo.Point{Lat: p.Lat, Lon: p.Lon},
		CreatedAt: p.CreatedAt,
	}
}

func (p *PgStore) FromDomain(store domain.Store) {
	*p = PgStore{
		ID:   uuid.UUID(store.ID),
		Name: store.Name,
		Address: sql.NullString{
			String: store.Address,
			Valid:  store.Address != "",
		},
		Lat:       store.Location.Lat,
		Lon:       store.Location.Lon,
		CreatedAt: store.CreatedAt,
	}
}

type PgSighting struct {
	ID     uuid.UUID `db:"id" goqu:"skipinsert"`
	UserID uuid.UUID `db:"user_id"`

	ProductID uuid.UUID `db:"product_id"`
	StoreID   uuid.UUID `db:"store_id"`

	Price float64 `db:"price"`
	Lat   float64 `db:"lat"`
	Lon   float64 `db:"lon"`

	Validated bool `db:"validated" goqu:"skipinsert"`

	CreatedAt time.Time `db:"created_at" goqu:"skipinsert"`
}

func (p *PgSighting) ToDomain() *domain.Sighting {
	return &domain.Sighting{
		ID:        domain.SightingID(p.ID),
		UserID:    domain.UserID(p.UserID),
		ProductID: domain.ProductID(p.ProductID),
		StoreID:   domain.StoreID(p.StoreID),
		Price:     p.Price,
		Location:  geo.Point{Lat: p.Lat, Lon: p.Lon},
		Validated: p.Validated,
		CreatedAt: p.CreatedAt,
	}
}

func (p *PgSighting) FromDomain(sighting domain.Sighting) {
	*p = PgSighting{
		ID:        uuid.UUID(sighting.ID),
		UserID:    uuid.UUID(sighting.UserID),
		ProductID: uuid.UUID(sighting.ProductID),
		StoreID:   uuid.UUID(sighting.StoreID),
		Price:     sighting.Price,
		Lat:       sighting.Location.Lat,
		Lon:       sighting.Location.Lon,
		Validated: sighting.Validated,
		CreatedAt: sighting.CreatedAt,
	}
}

type PgAlert struct {
	ID     uuid.UUID `db:"id" goqu:"skipinsert"`
	UserID uuid.UUID `db:"user_id"`

	ProductID   uuid.UUID       `db:"product_id"`
	TargetPrice sql.NullFloat64 `db:"target_price"`
	RadiusKm    float64         `db:"radius_km"`
	Active      bool            `db:"active"`

	CreatedAt time.Time `db:"created_at" goqu:"skipinsert"`
}

func (p *PgAlert) ToDomain() *domain.Alert {
	var target *float64
	if p.TargetPrice.Valid {
		v := p.TargetPrice.Float64
		target = &v
	}

	return &domain.Alert{
		ID:          domain.AlertID(p.ID),
		UserID:      domain.UserID(p.UserID),
		ProductID:   domain.ProductID(p.ProductID),
		TargetPrice: target,
		RadiusKm:    p.RadiusKm,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
	}
}

func (p *PgAlert) FromDomain(alert domain.Alert) {
	var target sql.NullFloat64
	if alert.TargetPrice != nil {
		target = sql.NullFloat64{Float64: *alert.TargetPrice, Valid: true}
	}

	*p = PgAlert{
		ID:          uuid.UUID(alert.ID),
		UserID:      uuid.UUID(alert.UserID),
		ProductID:   uuid.UUID(alert.ProductID),
		TargetPrice: target,
		RadiusKm:    alert.RadiusKm,
		Active:      alert.Active,
		CreatedAt:   alert.CreatedAt,
	}
}

type PgNotification struct {
	ID     uuid.UUID `db:"id" goqu:"skipinsert"`
	UserID uuid.UUID `db:"user_id"`

	AlertID    uuid.UUID `db:"alert_id"`
	SightingID uuid.UUID `db:"sighting_id"`

	Delivered bool `db:"delivered" goqu:"skipinsert"`

	CreatedAt time.Time `db:"created_at" goqu:"skipinsert"`
}

func (p *PgNotification) ToDomain() *domain.Notification {
	return &domain.Notification{
		ID:         domain.NotificationID(p.ID),
		UserID:     domain.UserID(p.UserID),
		AlertID:    domain.AlertID(p.AlertID),
		SightingID: domain.SightingID(p.SightingID),
		Delivered:  p.Delivered,
		CreatedAt:  p.CreatedAt,
	}
}

func (p *PgNotification) FromDomain(notification domain.Notification) {
	*p = PgNotification{
		ID:         uuid.UUID(notification.ID),
		UserID:     uuid.UUID(notification.UserID),
		AlertID:    uuid.UUID(notification.AlertID),
		SightingID: uuid.UUID(notification.SightingID),
		Delivered:  notification.Delivered,
		CreatedAt:  notification.CreatedAt,
	}
}

func pgSightingsToDomain(rows []PgSighting) []domain.Sighting {
	out := make([]domain.Sighting, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return out
}

func pgAlertsToDomain(rows []PgAlert) []domain.Alert {
	out := make([]domain.Alert, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return out
}

func pgNotificationsToDomain(rows []PgNotification) []domain.Notification {
	out := make([]domain.Notification, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return out
}

func pgStoresToDomain(rows []PgStore) []domain.Store {
	out := make([]domain.Store, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return out
}
