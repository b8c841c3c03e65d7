package model

import "time"

type Seller struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Phone     string    `json:"phone" bson:"phone" validate:"omitempty,e164"`
	City      string    `json:"city" bson:"city" validate:"required,min=2,max=80"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
