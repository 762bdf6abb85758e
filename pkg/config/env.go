package config

const (
	EnvStorageDriver = "STORAGE_DRIVER"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvDataDir = "DATA_DIR"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvRooms          = "ROOMS"
	EnvDayStart       = "DAY_START"
	EnvDayEnd         = "DAY_END"
	EnvSlotMinutes    = "SLOT_MINUTES"
	EnvRequireSecret  = "REQUIRE_SECRET"
	EnvRequireContact = "REQUIRE_CONTACT"
	EnvRequireTitle   = "REQUIRE_TITLE"
	EnvContactRegion  = "CONTACT_REGION"

	EnvBcryptCost        = "BCRYPT_COST"
	EnvAdminPasswordHash = "ADMIN_PASSWORD_HASH"

	EnvNotifyOnChange  = "NOTIFY_ON_CHANGE"
	EnvNotifyTopic     = "NOTIFY_TOPIC"
	EnvNotifyTimeout   = "NOTIFY_TIMEOUT"
	EnvNotifyRecipient = "NOTIFY_RECIPIENT"
	EnvSMTPAddr        = "SMTP_ADDR"
	EnvSMTPFrom        = "SMTP_FROM"
	EnvSMTPTimeout     = "SMTP_TIMEOUT"

	EnvLockTTL        = "LOCK_TTL"
	EnvLockRetries    = "LOCK_RETRIES"
	EnvLockRetryDelay = "LOCK_RETRY_DELAY"
)
