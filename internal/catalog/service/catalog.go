package service

import (
	"context"
	"errors"

	"drivemart/internal/catalog/repository"
	"drivemart/pkg/cache"
	"drivemart/pkg/config"
	apperrors "drivemart/pkg/errors"
	"drivemart/pkg/model"
)

// CatalogService serves vehicle-model lookups. Reads are cached under
// model_<id>; the catalog is effectively read-only from this subsystem's
// point of view, so no invalidation paths live here.
type CatalogService interface {
	GetModelByID(ctx context.Context, id string) (*model.VehicleModel, error)
}

type catalogService struct {
	repo  repository.VehicleModelRepository
	cache cache.Cache
	cfg   *config.Config
}

func NewCatalogService(repo repository.VehicleModelRepository, c cache.Cache, cfg *config.Config) CatalogService {
	return &catalogService{
		repo:  repo,
		cache: c,
		cfg:   cfg,
	}
}

func (s *catalogService) GetModelByID(ctx context.Context, id string) (*model.VehicleModel, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Vehicle model ID cannot be empty")
	}

	vehicleModel, err := cache.GetOrSet(ctx, s.cache, cache.ModelKey(id), s.cfg.CacheTTL,
		func(ctx context.Context) (*model.VehicleModel, error) {
			return s.repo.FindByID(ctx, id)
		})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Vehicle model", id)
		}
		if errors.Is(err, repository.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid vehicle model ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve vehicle model", err)
	}

	return vehicleModel, nil
}
