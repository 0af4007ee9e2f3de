package domain

import "github.com/google/uuid"

// The ID wrappers round-trip through their canonical UUID string form in JSON
// and text encodings.

func (id UserID) String() string                 { return uuid.UUID(id).String() }
func (id UserID) MarshalText() ([]byte, error)   { return uuid.UUID(id).MarshalText() }
func (id *UserID) UnmarshalText(data []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(data)
}

func (id ProductID) String() string               { return uuid.UUID(id).String() }
func (id ProductID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *ProductID) UnmarshalText(data []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(data)
}

func (id StoreID) String() string               { return uuid.UUID(id).String() }
func (id StoreID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *StoreID) UnmarshalText(data []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(data)
}

func (id SightingID) String() string               { return uuid.UUID(id).String() }
func (id SightingID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *SightingID) UnmarshalText(data []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(data)
}

func (id AlertID) String() string               { return uuid.UUID(id).String() }
func (id AlertID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *AlertID) UnmarshalText(data []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(data)
}

func (id NotificationID) String() string               { return uuid.UUID(id).String() }
func (id NotificationID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *NotificationID) UnmarshalText(data []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(data)
}
