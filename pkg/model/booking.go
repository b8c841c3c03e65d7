package model

import "time"

const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Booking is one customer's reservation against one slot. BookingDate is
// copied from the slot's available date at creation time and, together
// with CustomerID and SlotID, forms the duplicate-prevention identity.
type Booking struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	CustomerID      string    `json:"customer_id" bson:"customer_id" validate:"required,mongodb"`
	SlotID          string    `json:"slot_id" bson:"slot_id" validate:"required,mongodb"`
	BookingDate     time.Time `json:"booking_date" bson:"booking_date" validate:"omitempty"`
	StartTime       time.Time `json:"start_time" bson:"start_time" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" bson:"duration_minutes" validate:"required,min=15,max=240"`
	Status          string    `json:"status" bson:"status" validate:"omitempty,oneof=confirmed completed cancelled"`
	FeedbackRating  *int      `json:"feedback_rating,omitempty" bson:"feedback_rating,omitempty" validate:"omitempty,min=1,max=5"`
	FeedbackComment string    `json:"feedback_comment,omitempty" bson:"feedback_comment,omitempty" validate:"omitempty,max=1000"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BookingUpdate is a partial patch. CustomerID is immutable after
// creation and deliberately has no field here.
type BookingUpdate struct {
	SlotID          string     `json:"slot_id,omitempty" validate:"omitempty,mongodb"`
	StartTime       *time.Time `json:"start_time,omitempty" validate:"omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty" validate:"omitempty,min=15,max=240"`
	Status          string     `json:"status,omitempty" validate:"omitempty,oneof=confirmed completed cancelled"`
}

// BookingFeedback is the rating sub-workflow payload.
type BookingFeedback struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}
