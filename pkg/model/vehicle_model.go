package model

import "time"

type VehicleModel struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	BrandID    string    `json:"brand_id" bson:"brand_id" validate:"required,mongodb"`
	CategoryID string    `json:"category_id" bson:"category_id" validate:"required,mongodb"`
	Name       string    `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Year       int       `json:"year" bson:"year" validate:"required,min=1950,max=2100"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
