package errors

import "errors"

var (
	ErrNotFound  = errors.New("booking not found")
	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrSlotFull signals the slot's booking count reached max_bookings.
	ErrSlotFull = errors.New("slot is fully booked")

	// ErrDuplicateBooking signals the customer already holds a booking for
	// the same slot on the same date.
	ErrDuplicateBooking = errors.New("duplicate booking for customer and slot")
)
