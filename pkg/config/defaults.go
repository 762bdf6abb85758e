package config

import "time"

const (
	DefaultStorageDriver = DriverMongo

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "roombook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultDataDir = "./data"

	DefaultPort     = "8080"
	DefaultLogLevel = "info"
	DefaultLogFmt   = "json"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100

	DefaultDayStart       = "08:00"
	DefaultDayEnd         = "18:00"
	DefaultSlotMinutes    = 30
	DefaultRequireSecret  = true
	DefaultRequireContact = true
	DefaultRequireTitle   = true
	DefaultContactRegion  = "SG"

	DefaultBcryptCost = 10

	DefaultNotifyOnChange = false
	DefaultNotifyTopic    = "booking-events"
	DefaultNotifyTimeout  = 3 * time.Second
	DefaultSMTPTimeout    = 10 * time.Second

	DefaultLockTTL        = 10 * time.Second
	DefaultLockRetries    = 20
	DefaultLockRetryDelay = 50 * time.Millisecond
)

var DefaultRooms = []string{
	"DFO Conference Room (Max 15 Pax)",
	"I-Room (Max 5 Pax)",
}
