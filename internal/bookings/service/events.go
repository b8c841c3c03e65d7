package service

import (
	"context"
	"time"

	"drivemart/pkg/kafka"
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingUpdated   = "booking.updated"
	EventBookingCancelled = "booking.cancelled"
	EventSourceBookings   = "bookings-service"
)

// EventPublisher is the outbound notification surface. A nil publisher
// disables publishing, so the service runs unchanged when no brokers are
// configured.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type bookingEventPayload struct {
	BookingID   string    `json:"booking_id"`
	CustomerID  string    `json:"customer_id"`
	SlotID      string    `json:"slot_id"`
	BookingDate time.Time `json:"booking_date"`
	Status      string    `json:"status"`
}

func (s *bookingService) publishEvent(ctx context.Context, eventType string, payload bookingEventPayload) {
	if s.events == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(payload.SlotID).
		WithValue(payload).
		WithEventType(eventType).
		WithSource(EventSourceBookings).
		Build()

	if err := s.events.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", payload.BookingID,
			"error", err,
		)
	}
}
