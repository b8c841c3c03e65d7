package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "drivemart/internal/bookings/errors"
	"drivemart/internal/bookings/repository"
	"drivemart/internal/bookings/validator"
	slotserrors "drivemart/internal/slots/errors"
	slotsrepository "drivemart/internal/slots/repository"
	"drivemart/pkg/cache"
	"drivemart/pkg/config"
	apperrors "drivemart/pkg/errors"
	"drivemart/pkg/model"
	"drivemart/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetByCustomer(ctx context.Context, customerID string) ([]*model.Booking, error)
	GetBySlot(ctx context.Context, slotID string) ([]*model.Booking, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate) error
	Delete(ctx context.Context, id string) error
	SetFeedback(ctx context.Context, id string, feedback *model.BookingFeedback) error
	ClearFeedback(ctx context.Context, id string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.SlotLockRepository
	slots     slotsrepository.SlotRepository
	cache     cache.Cache
	validator *validator.BookingValidator
	events    EventPublisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.SlotLockRepository,
	slots slotsrepository.SlotRepository,
	c cache.Cache,
	v *validator.BookingValidator,
	events EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		slots:     slots,
		cache:     c,
		validator: v,
		events:    events,
		cfg:       cfg,
	}
}

// Create books a test drive against a slot. The capacity check, the
// duplicate scan, and the insert run inside one session transaction,
// guarded by an advisory lock on the slot and date, so two concurrent
// requests for the last remaining seat cannot both pass the check.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	slot, err := s.resolveSlot(ctx, booking.SlotID)
	if err != nil {
		return err
	}
	booking.BookingDate = slot.AvailableDate

	lockID, err := s.acquireSlotLock(ctx, slot.ID, booking.BookingDate)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyCapacity(sessCtx, slot); err != nil {
			return err
		}
		if err := s.verifyNoDuplicate(sessCtx, booking, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			if errors.Is(err, bookingserrors.ErrDuplicateBooking) {
				return apperrors.ConflictWith(bookingserrors.ErrDuplicateBooking,
					"Customer already has a booking for this slot on this date")
			}
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "slot_id", booking.SlotID, "error", err)
		return err
	}

	s.invalidateBooking(ctx, booking.ID, booking.CustomerID)

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"customer_id", booking.CustomerID,
		"slot_id", booking.SlotID,
		"booking_date", booking.BookingDate,
	)

	s.publishEvent(ctx, EventBookingCreated, bookingEventPayload{
		BookingID:   booking.ID,
		CustomerID:  booking.CustomerID,
		SlotID:      booking.SlotID,
		BookingDate: booking.BookingDate,
		Status:      booking.Status,
	})
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := cache.GetOrSet(ctx, s.cache, cache.BookingKey(id), s.cfg.CacheTTL,
		func(ctx context.Context) (*model.Booking, error) {
			return s.repo.FindByID(ctx, id)
		})
	if err != nil {
		return nil, s.mapBookingError(err, id, "Failed to retrieve booking")
	}

	return booking, nil
}

func (s *bookingService) GetByCustomer(ctx context.Context, customerID string) ([]*model.Booking, error) {
	if customerID == "" {
		return nil, apperrors.InvalidInput("Customer ID cannot be empty")
	}

	bookings, err := cache.GetOrSet(ctx, s.cache, cache.CustomerBookingsKey(customerID), s.cfg.CacheTTL,
		func(ctx context.Context) ([]*model.Booking, error) {
			return s.repo.FindByCustomer(ctx, customerID)
		})
	if err != nil {
		s.cfg.Log.Error("Failed to list customer bookings", "customer_id", customerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve customer bookings", err)
	}
	return bookings, nil
}

// GetBySlot is a capacity-management view for sellers; it reads the
// store directly so the count is never stale.
func (s *bookingService) GetBySlot(ctx context.Context, slotID string) ([]*model.Booking, error) {
	if slotID == "" {
		return nil, apperrors.InvalidInput("Slot ID cannot be empty")
	}

	bookings, err := s.repo.FindBySlot(ctx, slotID)
	if err != nil {
		s.cfg.Log.Error("Failed to list slot bookings", "slot_id", slotID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve slot bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapBookingError(err, id, "Failed to check booking existence")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeBookingUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return err
	}

	movingSlot := updates.SlotID != "" && updates.SlotID != existing.SlotID
	if movingSlot {
		slot, err := s.resolveSlot(ctx, merged.SlotID)
		if err != nil {
			return err
		}
		merged.BookingDate = slot.AvailableDate

		// A move contends for the target slot's seats the same way a new
		// booking does; it takes the same advisory lock, or the capacity
		// check races against concurrent moves into the last seat.
		lockID, err := s.acquireSlotLock(ctx, slot.ID, merged.BookingDate)
		if err != nil {
			return err
		}
		defer func() {
			if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
				s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
			}
		}()

		err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			if err := s.verifyCapacity(sessCtx, slot); err != nil {
				return err
			}
			if err := s.verifyNoDuplicate(sessCtx, merged, id); err != nil {
				return err
			}
			return s.applyUpdate(sessCtx, id, merged)
		})
		if err != nil {
			s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
			return err
		}
	} else {
		if err := s.applyUpdate(ctx, id, merged); err != nil {
			s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
			return err
		}
	}

	// existing.CustomerID, not merged: the customer is immutable, but the
	// invalidation must follow the record that was actually cached.
	s.invalidateBooking(ctx, id, existing.CustomerID)

	s.cfg.Log.Info("Booking updated successfully", "id", id)

	s.publishEvent(ctx, EventBookingUpdated, bookingEventPayload{
		BookingID:   id,
		CustomerID:  existing.CustomerID,
		SlotID:      merged.SlotID,
		BookingDate: merged.BookingDate,
		Status:      merged.Status,
	})
	return nil
}

func (s *bookingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapBookingError(err, id, "Failed to check booking existence")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapBookingError(err, id, "Failed to delete booking")
	}

	s.invalidateBooking(ctx, id, existing.CustomerID)

	s.cfg.Log.Info("Booking deleted successfully", "id", id)

	s.publishEvent(ctx, EventBookingCancelled, bookingEventPayload{
		BookingID:   id,
		CustomerID:  existing.CustomerID,
		SlotID:      existing.SlotID,
		BookingDate: existing.BookingDate,
		Status:      model.BookingStatusCancelled,
	})
	return nil
}

func (s *bookingService) SetFeedback(ctx context.Context, id string, feedback *model.BookingFeedback) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	if err := s.validator.ValidateFeedback(feedback); err != nil {
		s.cfg.Log.Warn("Booking feedback validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid feedback input", map[string]any{"error": err.Error()})
	}
	feedback.Comment = sanitizer.TrimAndNormalize(feedback.Comment)

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapBookingError(err, id, "Failed to check booking existence")
	}

	if err := s.repo.SetFeedback(ctx, id, feedback); err != nil {
		return s.mapBookingError(err, id, "Failed to set booking feedback")
	}

	s.invalidateBooking(ctx, id, existing.CustomerID)

	s.cfg.Log.Info("Booking feedback recorded", "id", id, "rating", feedback.Rating)
	return nil
}

func (s *bookingService) ClearFeedback(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapBookingError(err, id, "Failed to check booking existence")
	}

	if err := s.repo.ClearFeedback(ctx, id); err != nil {
		return s.mapBookingError(err, id, "Failed to clear booking feedback")
	}

	s.invalidateBooking(ctx, id, existing.CustomerID)

	s.cfg.Log.Info("Booking feedback cleared", "id", id)
	return nil
}

// --- Helpers ---

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.Status == "" {
		b.Status = model.BookingStatusConfirmed
	}
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.FeedbackComment = sanitizer.TrimAndNormalize(b.FeedbackComment)
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// resolveSlot loads the slot a booking references and rejects bookings
// against unknown or inactive slots.
func (s *bookingService) resolveSlot(ctx context.Context, slotID string) (*model.Slot, error) {
	slot, err := s.slots.FindByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotserrors.ErrNotFound) || errors.Is(err, slotserrors.ErrInvalidID) {
			return nil, apperrors.Validation("Referenced slot does not exist", map[string]any{"slot_id": slotID})
		}
		return nil, apperrors.Internal("Failed to verify slot reference", err)
	}
	if !slot.IsActive {
		return nil, apperrors.Validation("Slot is not open for booking", map[string]any{"slot_id": slotID})
	}
	return slot, nil
}

func (s *bookingService) verifyCapacity(ctx context.Context, slot *model.Slot) error {
	count, err := s.repo.CountBySlot(ctx, slot.ID)
	if err != nil {
		return apperrors.Internal("Failed to count slot bookings", err)
	}
	if count >= int64(slot.MaxBookings) {
		return apperrors.ConflictWith(bookingserrors.ErrSlotFull, "Slot is fully booked")
	}
	return nil
}

// verifyNoDuplicate scans the customer's bookings and returns a conflict
// on the first one hitting the same slot and date. excludeID skips the
// booking being updated.
func (s *bookingService) verifyNoDuplicate(ctx context.Context, booking *model.Booking, excludeID string) error {
	existing, err := s.repo.FindByCustomer(ctx, booking.CustomerID)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if b.ID == excludeID {
			continue
		}
		if b.SlotID == booking.SlotID && sameDay(b.BookingDate, booking.BookingDate) {
			return apperrors.ConflictWith(bookingserrors.ErrDuplicateBooking,
				"Customer already has a booking for this slot on this date")
		}
	}
	return nil
}

func (s *bookingService) applyUpdate(ctx context.Context, id string, merged *model.Booking) error {
	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, bookingserrors.ErrDuplicateBooking) {
			return apperrors.ConflictWith(bookingserrors.ErrDuplicateBooking,
				"Customer already has a booking for this slot on this date")
		}
		return s.mapBookingError(err, id, "Failed to update booking")
	}
	return nil
}

func (s *bookingService) mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.SlotID != "" {
		merged.SlotID = updates.SlotID
	}
	if updates.StartTime != nil {
		merged.StartTime = *updates.StartTime
	}
	if updates.DurationMinutes != nil {
		merged.DurationMinutes = *updates.DurationMinutes
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}

	return &merged
}

// acquireSlotLock inserts an advisory lock document keyed on the slot and
// booking date. The unique _id makes the insert a compare-and-swap;
// contention surfaces as a duplicate-key error.
func (s *bookingService) acquireSlotLock(ctx context.Context, slotID string, bookingDate time.Time) (string, error) {
	lockID := fmt.Sprintf("slot_lock_%s_%s", slotID, bookingDate.UTC().Format("2006-01-02"))

	lock := &model.SlotLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.SlotLockTTL),
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire slot lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

func (s *bookingService) invalidateBooking(ctx context.Context, id, customerID string) {
	if err := s.cache.Delete(ctx, cache.BookingKey(id)); err != nil {
		s.cfg.Log.Warn("Failed to invalidate booking cache entry", "id", id, "error", err)
	}
	if err := s.cache.Delete(ctx, cache.CustomerBookingsKey(customerID)); err != nil {
		s.cfg.Log.Warn("Failed to invalidate customer bookings cache", "customer_id", customerID, "error", err)
	}
}

func (s *bookingService) mapBookingError(err error, id, internalMsg string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	return apperrors.Internal(internalMsg, err)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
