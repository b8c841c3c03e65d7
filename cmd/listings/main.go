package main

import (
	catalogrepository "drivemart/internal/catalog/repository"
	catalogservice "drivemart/internal/catalog/service"
	"drivemart/internal/listings/handler"
	"drivemart/internal/listings/repository"
	"drivemart/internal/listings/service"
	"drivemart/internal/listings/validator"
	sellersrepository "drivemart/internal/sellers/repository"
	"drivemart/pkg/app"
	"drivemart/pkg/cache"
	"drivemart/pkg/config"
)

const ServiceName = "listings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Listings service")

	listingService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewListingHandler(listingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ListingService {
	var store cache.Cache
	if cfg.Client.Redis != nil {
		cfg.Log.Info("Using Redis cache store", "addr", cfg.RedisAddr)
		store = cache.NewRedisStore(cfg.Client.Redis)
	} else {
		cfg.Log.Warn("Redis unavailable, using in-process cache store")
		store = cache.NewMemoryStore()
	}

	sellerRepo := sellersrepository.NewMongoSellerRepository(cfg)
	modelRepo := catalogrepository.NewMongoVehicleModelRepository(cfg)
	catalog := catalogservice.NewCatalogService(modelRepo, store, cfg)

	listingRepo := repository.NewMongoListingRepository(cfg)
	listingService := service.NewListingService(
		listingRepo,
		sellerRepo,
		catalog,
		store,
		validator.NewListingValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Listing service initialized", "database", cfg.MongoDatabaseName)
	return listingService
}
