package model

import "time"

const (
	ListingStatusActive   = "active"
	ListingStatusSold     = "sold"
	ListingStatusArchived = "archived"
)

type Listing struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	SellerID       string    `json:"seller_id" bson:"seller_id" validate:"required,mongodb"`
	VehicleModelID string    `json:"vehicle_model_id" bson:"vehicle_model_id" validate:"required,mongodb"`
	Title          string    `json:"title" bson:"title" validate:"required,min=3,max=160"`
	Description    string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=5000"`
	Price          int64     `json:"price" bson:"price" validate:"required,min=1"`
	Mileage        int       `json:"mileage" bson:"mileage" validate:"min=0"`
	Status         string    `json:"status" bson:"status" validate:"omitempty,oneof=active sold archived"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// ListingUpdate is a partial patch. SellerID is immutable.
type ListingUpdate struct {
	Title       string `json:"title,omitempty" validate:"omitempty,min=3,max=160"`
	Description string `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price       *int64 `json:"price,omitempty" validate:"omitempty,min=1"`
	Mileage     *int   `json:"mileage,omitempty" validate:"omitempty,min=0"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=active sold archived"`
}
