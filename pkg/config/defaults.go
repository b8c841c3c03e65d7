package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "drivemart"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr = ""
	DefaultRedisDB   = 0

	// One hour bounds worst-case staleness when an invalidation is
	// missed. Every cached read in the application uses this unless a
	// key family overrides it.
	DefaultCacheTTL         = time.Hour
	DefaultListingsCacheTTL = time.Hour

	// Advisory slot locks auto-expire so a crashed request cannot wedge
	// a slot.
	DefaultSlotLockTTL = 10 * time.Second

	DefaultPort = "8080"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)
