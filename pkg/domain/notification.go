package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationID uniquely identifies an emitted notification.
// It wraps uuid.UUID to provide type safety at the domain layer.
type NotificationID uuid.UUID

// Notification records that a validated sighting satisfied an alert. Exactly
// one notification exists per (alert, sighting) pair; re-running matching for
// the same sighting never produces a duplicate. Delivery over push or email is
// handled by an external collaborator which flips the Delivered flag.
type Notification struct {
	// ID is the unique identifier of the notification.
	ID NotificationID `json:"id"`
	// UserID is the recipient, the owner of the satisfied alert.
	UserID UserID `json:"userId"`

	// AlertID references the alert that was satisfied.
	AlertID AlertID `json:"alertId"`
	// SightingID references the validated sighting that triggered the alert.
	SightingID SightingID `json:"sightingId"`

	// Delivered reports whether the delivery collaborator has handed the
	// notification off. New notifications start undelivered.
	Delivered bool `json:"delivered"`

	// CreatedAt is the time the notification was emitted.
	CreatedAt time.Time `json:"createdAt"`
}
