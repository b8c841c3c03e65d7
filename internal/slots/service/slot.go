package service

import (
	"context"
	"errors"

	catalogservice "drivemart/internal/catalog/service"
	sellersrepository "drivemart/internal/sellers/repository"
	slotserrors "drivemart/internal/slots/errors"
	"drivemart/internal/slots/repository"
	"drivemart/internal/slots/validator"
	"drivemart/pkg/cache"
	"drivemart/pkg/config"
	apperrors "drivemart/pkg/errors"
	"drivemart/pkg/model"
	"drivemart/pkg/sanitizer"
)

type SlotService interface {
	Create(ctx context.Context, slot *model.Slot) error
	GetByID(ctx context.Context, id string) (*model.Slot, error)
	GetAll(ctx context.Context) ([]*model.Slot, error)
	GetBySeller(ctx context.Context, sellerID string) ([]*model.Slot, error)
	GetActive(ctx context.Context) ([]*model.Slot, error)
	Update(ctx context.Context, id string, updates *model.SlotUpdate) error
	Delete(ctx context.Context, id string) error
}

type slotService struct {
	repo      repository.SlotRepository
	sellers   sellersrepository.SellerRepository
	catalog   catalogservice.CatalogService
	cache     cache.Cache
	validator *validator.SlotValidator
	cfg       *config.Config
}

func NewSlotService(
	repo repository.SlotRepository,
	sellers sellersrepository.SellerRepository,
	catalog catalogservice.CatalogService,
	c cache.Cache,
	v *validator.SlotValidator,
	cfg *config.Config,
) SlotService {
	return &slotService{
		repo:      repo,
		sellers:   sellers,
		catalog:   catalog,
		cache:     c,
		validator: v,
		cfg:       cfg,
	}
}

func (s *slotService) Create(ctx context.Context, slot *model.Slot) error {
	slot.Location = sanitizer.NormalizeLocation(slot.Location)

	if err := s.validator.Validate(slot); err != nil {
		s.cfg.Log.Warn("Slot validation failed", "error", err)
		return apperrors.Validation("Slot validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.verifyReferences(ctx, slot.SellerID, slot.VehicleModelID); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, slot); err != nil {
		s.cfg.Log.Error("Failed to create slot", "error", err)
		return apperrors.Internal("Failed to create slot", err)
	}

	s.invalidateSlotLists(ctx)

	s.cfg.Log.Info("Slot created successfully",
		"id", slot.ID,
		"seller_id", slot.SellerID,
		"available_date", slot.AvailableDate,
		"max_bookings", slot.MaxBookings,
	)
	return nil
}

func (s *slotService) GetByID(ctx context.Context, id string) (*model.Slot, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Slot ID cannot be empty")
	}

	slot, err := cache.GetOrSet(ctx, s.cache, cache.SlotKey(id), s.cfg.CacheTTL,
		func(ctx context.Context) (*model.Slot, error) {
			return s.repo.FindByID(ctx, id)
		})
	if err != nil {
		return nil, s.mapSlotError(err, id, "Failed to retrieve slot")
	}

	return slot, nil
}

func (s *slotService) GetAll(ctx context.Context) ([]*model.Slot, error) {
	slots, err := cache.GetOrSet(ctx, s.cache, cache.SlotsKey, s.cfg.CacheTTL,
		func(ctx context.Context) ([]*model.Slot, error) {
			return s.repo.FindAll(ctx)
		})
	if err != nil {
		s.cfg.Log.Error("Failed to list slots", "error", err)
		return nil, apperrors.Internal("Failed to retrieve slots", err)
	}
	return slots, nil
}

func (s *slotService) GetBySeller(ctx context.Context, sellerID string) ([]*model.Slot, error) {
	if sellerID == "" {
		return nil, apperrors.InvalidInput("Seller ID cannot be empty")
	}

	slots, err := cache.GetOrSet(ctx, s.cache, cache.SellerSlotsKey(sellerID), s.cfg.CacheTTL,
		func(ctx context.Context) ([]*model.Slot, error) {
			return s.repo.FindBySeller(ctx, sellerID)
		})
	if err != nil {
		s.cfg.Log.Error("Failed to list seller slots", "seller_id", sellerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve seller slots", err)
	}
	return slots, nil
}

func (s *slotService) GetActive(ctx context.Context) ([]*model.Slot, error) {
	slots, err := cache.GetOrSet(ctx, s.cache, cache.ActiveSlotsKey, s.cfg.CacheTTL,
		func(ctx context.Context) ([]*model.Slot, error) {
			return s.repo.FindActive(ctx)
		})
	if err != nil {
		s.cfg.Log.Error("Failed to list active slots", "error", err)
		return nil, apperrors.Internal("Failed to retrieve active slots", err)
	}
	return slots, nil
}

func (s *slotService) Update(ctx context.Context, id string, updates *model.SlotUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Slot ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapSlotError(err, id, "Failed to check slot existence")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Slot update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeSlotUpdates(existing, updates)
	merged.Location = sanitizer.NormalizeLocation(merged.Location)

	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Slot validation failed", "id", id, "error", err)
		return apperrors.Validation("Slot validation failed", map[string]any{"error": err.Error()})
	}

	// The model reference only needs re-checking when the patch moves it.
	if updates.VehicleModelID != "" && updates.VehicleModelID != existing.VehicleModelID {
		if err := s.verifyReferences(ctx, "", merged.VehicleModelID); err != nil {
			return err
		}
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		return s.mapSlotError(err, id, "Failed to update slot")
	}

	s.invalidateSlot(ctx, id)
	s.invalidateSlotLists(ctx)

	s.cfg.Log.Info("Slot updated successfully", "id", id)
	return nil
}

func (s *slotService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Slot ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapSlotError(err, id, "Failed to delete slot")
	}

	s.invalidateSlot(ctx, id)
	s.invalidateSlotLists(ctx)

	s.cfg.Log.Info("Slot deleted successfully", "id", id)
	return nil
}

// --- Helpers ---

func (s *slotService) verifyReferences(ctx context.Context, sellerID, vehicleModelID string) error {
	if sellerID != "" {
		if _, err := s.sellers.FindByID(ctx, sellerID); err != nil {
			if errors.Is(err, sellersrepository.ErrNotFound) || errors.Is(err, sellersrepository.ErrInvalidID) {
				return apperrors.Validation("Referenced seller does not exist", map[string]any{"seller_id": sellerID})
			}
			return apperrors.Internal("Failed to verify seller reference", err)
		}
	}

	if vehicleModelID != "" {
		if _, err := s.catalog.GetModelByID(ctx, vehicleModelID); err != nil {
			appErr := apperrors.AsAppError(err)
			if appErr.Code == apperrors.CodeNotFound || appErr.Code == apperrors.CodeInvalidInput {
				return apperrors.Validation("Referenced vehicle model does not exist", map[string]any{"vehicle_model_id": vehicleModelID})
			}
			return apperrors.Internal("Failed to verify vehicle model reference", err)
		}
	}

	return nil
}

func (s *slotService) mergeSlotUpdates(existing *model.Slot, updates *model.SlotUpdate) *model.Slot {
	merged := *existing

	if updates.VehicleModelID != "" {
		merged.VehicleModelID = updates.VehicleModelID
	}
	if updates.Location != "" {
		merged.Location = updates.Location
	}
	if updates.AvailableDate != nil {
		merged.AvailableDate = *updates.AvailableDate
	}
	if updates.MaxBookings != nil {
		merged.MaxBookings = *updates.MaxBookings
	}
	if updates.IsActive != nil {
		merged.IsActive = *updates.IsActive
	}

	return &merged
}

func (s *slotService) invalidateSlot(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, cache.SlotKey(id)); err != nil {
		s.cfg.Log.Warn("Failed to invalidate slot cache entry", "id", id, "error", err)
	}
}

// invalidateSlotLists drops every list whose content a slot mutation can
// stale: the global list, every seller-scoped list, and the active feed.
func (s *slotService) invalidateSlotLists(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.SlotsKey); err != nil {
		s.cfg.Log.Warn("Failed to invalidate slots list cache", "error", err)
	}
	if err := s.cache.DeletePattern(ctx, cache.SellerSlotsPattern); err != nil {
		s.cfg.Log.Warn("Failed to invalidate seller slots caches", "error", err)
	}
	if err := s.cache.Delete(ctx, cache.ActiveSlotsKey); err != nil {
		s.cfg.Log.Warn("Failed to invalidate active slots cache", "error", err)
	}
}

func (s *slotService) mapSlotError(err error, id, internalMsg string) error {
	if errors.Is(err, slotserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Slot", id)
	}
	if errors.Is(err, slotserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid slot ID format")
	}
	return apperrors.Internal(internalMsg, err)
}
