package service

import (
	"context"
	"errors"

	catalogservice "drivemart/internal/catalog/service"
	listingserrors "drivemart/internal/listings/errors"
	"drivemart/internal/listings/repository"
	"drivemart/internal/listings/validator"
	sellersrepository "drivemart/internal/sellers/repository"
	"drivemart/pkg/cache"
	"drivemart/pkg/config"
	apperrors "drivemart/pkg/errors"
	"drivemart/pkg/model"
	"drivemart/pkg/sanitizer"
)

// ListingPage is one page of the public feed. It is cached as a unit so
// pagination metadata never drifts from the items it describes.
type ListingPage struct {
	Items []*model.Listing `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

type ListingService interface {
	Create(ctx context.Context, listing *model.Listing) error
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	GetPage(ctx context.Context, page, limit int, search, status string) (*ListingPage, error)
	Update(ctx context.Context, id string, updates *model.ListingUpdate) error
	Delete(ctx context.Context, id string) error
}

type listingService struct {
	repo      repository.ListingRepository
	sellers   sellersrepository.SellerRepository
	catalog   catalogservice.CatalogService
	cache     cache.Cache
	validator *validator.ListingValidator
	cfg       *config.Config
}

func NewListingService(
	repo repository.ListingRepository,
	sellers sellersrepository.SellerRepository,
	catalog catalogservice.CatalogService,
	c cache.Cache,
	v *validator.ListingValidator,
	cfg *config.Config,
) ListingService {
	return &listingService{
		repo:      repo,
		sellers:   sellers,
		catalog:   catalog,
		cache:     c,
		validator: v,
		cfg:       cfg,
	}
}

func (s *listingService) Create(ctx context.Context, listing *model.Listing) error {
	listing.Title = sanitizer.NormalizeTitle(listing.Title)
	listing.Description = sanitizer.TrimAndNormalize(listing.Description)
	if listing.Status == "" {
		listing.Status = model.ListingStatusActive
	}

	if err := s.validator.Validate(listing); err != nil {
		s.cfg.Log.Warn("Listing validation failed", "error", err)
		return apperrors.Validation("Listing validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.verifyReferences(ctx, listing.SellerID, listing.VehicleModelID); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		s.cfg.Log.Error("Failed to create listing", "error", err)
		return apperrors.Internal("Failed to create listing", err)
	}

	s.invalidatePages(ctx)

	s.cfg.Log.Info("Listing created successfully",
		"id", listing.ID,
		"seller_id", listing.SellerID,
		"price", listing.Price,
	)
	return nil
}

func (s *listingService) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Listing ID cannot be empty")
	}

	listing, err := cache.GetOrSet(ctx, s.cache, cache.ListingKey(id), s.cfg.ListingsCacheTTL,
		func(ctx context.Context) (*model.Listing, error) {
			return s.repo.FindByID(ctx, id)
		})
	if err != nil {
		return nil, s.mapListingError(err, id, "Failed to retrieve listing")
	}

	return listing, nil
}

func (s *listingService) GetPage(ctx context.Context, page, limit int, search, status string) (*ListingPage, error) {
	if page < 1 {
		page = 1
	}
	limit = config.NormalizePaginationLimit(limit)
	search = sanitizer.NormalizeSearchTerm(search)

	key := cache.ListingsPageKey(page, limit, search, status)
	result, err := cache.GetOrSet(ctx, s.cache, key, s.cfg.ListingsCacheTTL,
		func(ctx context.Context) (*ListingPage, error) {
			items, total, err := s.repo.FindPage(ctx, page, limit, search, status)
			if err != nil {
				return nil, err
			}
			return &ListingPage{Items: items, Total: total, Page: page, Limit: limit}, nil
		})
	if err != nil {
		s.cfg.Log.Error("Failed to list listings", "page", page, "limit", limit, "error", err)
		return nil, apperrors.Internal("Failed to retrieve listings", err)
	}

	return result, nil
}

func (s *listingService) Update(ctx context.Context, id string, updates *model.ListingUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Listing ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapListingError(err, id, "Failed to check listing existence")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Listing update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeListingUpdates(existing, updates)
	merged.Title = sanitizer.NormalizeTitle(merged.Title)
	merged.Description = sanitizer.TrimAndNormalize(merged.Description)

	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Listing validation failed", "id", id, "error", err)
		return apperrors.Validation("Listing validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		return s.mapListingError(err, id, "Failed to update listing")
	}

	s.invalidateListing(ctx, id)
	s.invalidatePages(ctx)

	s.cfg.Log.Info("Listing updated successfully", "id", id)
	return nil
}

func (s *listingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Listing ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapListingError(err, id, "Failed to delete listing")
	}

	s.invalidateListing(ctx, id)
	s.invalidatePages(ctx)

	s.cfg.Log.Info("Listing deleted successfully", "id", id)
	return nil
}

// --- Helpers ---

func (s *listingService) verifyReferences(ctx context.Context, sellerID, vehicleModelID string) error {
	if _, err := s.sellers.FindByID(ctx, sellerID); err != nil {
		if errors.Is(err, sellersrepository.ErrNotFound) || errors.Is(err, sellersrepository.ErrInvalidID) {
			return apperrors.Validation("Referenced seller does not exist", map[string]any{"seller_id": sellerID})
		}
		return apperrors.Internal("Failed to verify seller reference", err)
	}

	if _, err := s.catalog.GetModelByID(ctx, vehicleModelID); err != nil {
		appErr := apperrors.AsAppError(err)
		if appErr.Code == apperrors.CodeNotFound || appErr.Code == apperrors.CodeInvalidInput {
			return apperrors.Validation("Referenced vehicle model does not exist", map[string]any{"vehicle_model_id": vehicleModelID})
		}
		return apperrors.Internal("Failed to verify vehicle model reference", err)
	}

	return nil
}

func (s *listingService) mergeListingUpdates(existing *model.Listing, updates *model.ListingUpdate) *model.Listing {
	merged := *existing

	if updates.Title != "" {
		merged.Title = updates.Title
	}
	if updates.Description != "" {
		merged.Description = updates.Description
	}
	if updates.Price != nil {
		merged.Price = *updates.Price
	}
	if updates.Mileage != nil {
		merged.Mileage = *updates.Mileage
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}

	return &merged
}

func (s *listingService) invalidateListing(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, cache.ListingKey(id)); err != nil {
		s.cfg.Log.Warn("Failed to invalidate listing cache entry", "id", id, "error", err)
	}
}

// invalidatePages drops every cached feed page; any page may contain the
// mutated listing.
func (s *listingService) invalidatePages(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, cache.ListingsPattern); err != nil {
		s.cfg.Log.Warn("Failed to invalidate listings page caches", "error", err)
	}
}

func (s *listingService) mapListingError(err error, id, internalMsg string) error {
	if errors.Is(err, listingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Listing", id)
	}
	if errors.Is(err, listingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid listing ID format")
	}
	return apperrors.Internal(internalMsg, err)
}
