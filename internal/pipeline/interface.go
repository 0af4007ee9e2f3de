package pipeline

import (
	"context"

	"github.com/vaskito85/buscador-precios/pkg/domain"
	"github.com/vaskito85/buscador-precios/pkg/geo"
)

// SubmitRequest carries one user-submitted price observation.
type SubmitRequest struct {
	UserID    domain.UserID
	ProductID domain.ProductID
	StoreID   domain.StoreID
	Price     float64
	Location  geo.Point
}

// SubmitResult is the outcome of one submission: the stored sighting with its
// final validation state, and the notifications emitted for it (empty unless
// the sighting was validated and matched alerts).
type SubmitResult struct {
	Sighting      domain.Sighting
	Notifications []domain.Notification
}

//go:generate mockgen -package mockpipeline -source=interface.go -destination=mock/mockpipeline.go *
type Pipeline interface {
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error)
	UserNotifications(ctx context.Context, userID domain.UserID, limit uint) ([]domain.Notification, error)
}
