package model

import "time"

// Slot is a bookable test-drive opportunity published by a seller.
// MaxBookings caps how many confirmed bookings may reference the slot;
// the booking service is the only writer allowed to grow that count.
type Slot struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	SellerID       string    `json:"seller_id" bson:"seller_id" validate:"required,mongodb"`
	VehicleModelID string    `json:"vehicle_model_id" bson:"vehicle_model_id" validate:"required,mongodb"`
	Location       string    `json:"location" bson:"location" validate:"required,min=2,max=120"`
	AvailableDate  time.Time `json:"available_date" bson:"available_date" validate:"required"`
	MaxBookings    int       `json:"max_bookings" bson:"max_bookings" validate:"required,min=1,max=100"`
	IsActive       bool      `json:"is_active" bson:"is_active"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// SlotUpdate is a partial patch. SellerID is immutable after creation.
type SlotUpdate struct {
	VehicleModelID string     `json:"vehicle_model_id,omitempty" validate:"omitempty,mongodb"`
	Location       string     `json:"location,omitempty" validate:"omitempty,min=2,max=120"`
	AvailableDate  *time.Time `json:"available_date,omitempty" validate:"omitempty"`
	MaxBookings    *int       `json:"max_bookings,omitempty" validate:"omitempty,min=1,max=100"`
	IsActive       *bool      `json:"is_active,omitempty"`
}
