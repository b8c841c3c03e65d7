package main

import (
	bookingshandler "drivemart/internal/bookings/handler"
	bookingsrepository "drivemart/internal/bookings/repository"
	bookingsservice "drivemart/internal/bookings/service"
	bookingsvalidator "drivemart/internal/bookings/validator"
	catalogrepository "drivemart/internal/catalog/repository"
	catalogservice "drivemart/internal/catalog/service"
	sellersrepository "drivemart/internal/sellers/repository"
	slotshandler "drivemart/internal/slots/handler"
	slotsrepository "drivemart/internal/slots/repository"
	slotsservice "drivemart/internal/slots/service"
	slotsvalidator "drivemart/internal/slots/validator"
	"drivemart/pkg/app"
	"drivemart/pkg/cache"
	"drivemart/pkg/config"
	"drivemart/pkg/kafka"
	kafka_config "drivemart/pkg/kafka/config"
)

const (
	ServiceName        = "testdrives"
	BookingEventsTopic = "booking-events"
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Test Drives service")

	store := newCacheStore(cfg)
	producer := newEventProducer(cfg)
	if producer != nil {
		defer func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Warn("Failed to close event producer", "error", err)
			}
		}()
	}

	slotService, bookingService := initServices(cfg, store, producer)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		slotshandler.NewSlotHandler(slotService, cfg.Log),
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
	)
	serverApp.Run()
}

func newCacheStore(cfg *config.Config) cache.Cache {
	if cfg.Client.Redis != nil {
		cfg.Log.Info("Using Redis cache store", "addr", cfg.RedisAddr)
		return cache.NewRedisStore(cfg.Client.Redis)
	}
	cfg.Log.Warn("Redis unavailable, using in-process cache store")
	return cache.NewMemoryStore()
}

// newEventProducer returns nil when no brokers are configured; the
// booking service treats a nil publisher as publishing disabled.
func newEventProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg := kafka_config.Load()
	if !kafkaCfg.Enabled() {
		cfg.Log.Info("Kafka brokers not configured, event publishing disabled")
		return nil
	}

	producer, err := kafka.NewProducer(kafkaCfg, BookingEventsTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event producer", "error", err)
	}
	cfg.Log.Info("Event producer initialized", "topic", BookingEventsTopic, "brokers", kafkaCfg.Brokers)
	return producer
}

func initServices(cfg *config.Config, store cache.Cache, producer *kafka.Producer) (slotsservice.SlotService, bookingsservice.BookingService) {
	sellerRepo := sellersrepository.NewMongoSellerRepository(cfg)
	modelRepo := catalogrepository.NewMongoVehicleModelRepository(cfg)
	catalog := catalogservice.NewCatalogService(modelRepo, store, cfg)

	slotRepo := slotsrepository.NewMongoSlotRepository(cfg)
	slotService := slotsservice.NewSlotService(
		slotRepo,
		sellerRepo,
		catalog,
		store,
		slotsvalidator.NewSlotValidator(cfg.Log),
		cfg,
	)

	bookingRepo := bookingsrepository.NewMongoBookingRepository(cfg)
	lockRepo := bookingsrepository.NewSlotLockRepository(cfg)

	var events bookingsservice.EventPublisher
	if producer != nil {
		events = producer
	}

	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		lockRepo,
		slotRepo,
		store,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		events,
		cfg,
	)

	cfg.Log.Info("Test drive services initialized", "database", cfg.MongoDatabaseName)
	return slotService, bookingService
}
