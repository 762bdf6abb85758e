package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"roombook/pkg/client"
	"roombook/pkg/logger"
)

const (
	DriverMongo  = "mongo"
	DriverCSV    = "csv"
	DriverMemory = "memory"
)

var timeOfDayRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Ledger parameterises the booking workflow.
type Ledger struct {
	Rooms          []string
	DayStart       string
	DayEnd         string
	SlotMinutes    int
	RequireSecret  bool
	RequireContact bool
	RequireTitle   bool
	NotifyOnChange bool
	ContactRegion  string
}

type Config struct {
	StorageDriver string

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	DataDir string

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Ledger Ledger

	BcryptCost        int
	AdminPasswordHash string

	NotifyTopic     string
	NotifyTimeout   time.Duration
	NotifyRecipient string
	SMTPAddr        string
	SMTPFrom        string
	SMTPTimeout     time.Duration

	LockTTL        time.Duration
	LockRetries    int
	LockRetryDelay time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		StorageDriver: strings.ToLower(getEnvStr(EnvStorageDriver, DefaultStorageDriver)),

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		DataDir: getEnvStr(EnvDataDir, DefaultDataDir),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Ledger: Ledger{
			Rooms:          getEnvList(EnvRooms, DefaultRooms),
			DayStart:       getEnvStr(EnvDayStart, DefaultDayStart),
			DayEnd:         getEnvStr(EnvDayEnd, DefaultDayEnd),
			SlotMinutes:    getEnvNum(EnvSlotMinutes, DefaultSlotMinutes),
			RequireSecret:  getEnvBool(EnvRequireSecret, DefaultRequireSecret),
			RequireContact: getEnvBool(EnvRequireContact, DefaultRequireContact),
			RequireTitle:   getEnvBool(EnvRequireTitle, DefaultRequireTitle),
			NotifyOnChange: getEnvBool(EnvNotifyOnChange, DefaultNotifyOnChange),
			ContactRegion:  strings.ToUpper(getEnvStr(EnvContactRegion, DefaultContactRegion)),
		},

		BcryptCost:        getEnvNum(EnvBcryptCost, DefaultBcryptCost),
		AdminPasswordHash: getEnvStr(EnvAdminPasswordHash, ""),

		NotifyTopic:     getEnvStr(EnvNotifyTopic, DefaultNotifyTopic),
		NotifyTimeout:   getEnvDuration(EnvNotifyTimeout, DefaultNotifyTimeout),
		NotifyRecipient: getEnvStr(EnvNotifyRecipient, ""),
		SMTPAddr:        getEnvStr(EnvSMTPAddr, ""),
		SMTPFrom:        getEnvStr(EnvSMTPFrom, ""),
		SMTPTimeout:     getEnvDuration(EnvSMTPTimeout, DefaultSMTPTimeout),

		LockTTL:        getEnvDuration(EnvLockTTL, DefaultLockTTL),
		LockRetries:    getEnvNum(EnvLockRetries, DefaultLockRetries),
		LockRetryDelay: getEnvDuration(EnvLockRetryDelay, DefaultLockRetryDelay),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    getEnvStr(EnvLogFormat, DefaultLogFmt),
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) AdminEnabled() bool {
	return cfg.AdminPasswordHash != ""
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	switch cfg.StorageDriver {
	case DriverMongo:
		if cfg.MongoURI == "" {
			errors = append(errors, "MongoURI cannot be empty")
		} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	case DriverCSV:
		if cfg.DataDir == "" {
			errors = append(errors, "DataDir cannot be empty for the csv storage driver")
		}
	case DriverMemory:
	default:
		errors = append(errors, fmt.Sprintf("StorageDriver must be one of [mongo, csv, memory], got: %s", cfg.StorageDriver))
	}

	errors = append(errors, cfg.Ledger.validate()...)

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"RequestTimeout", cfg.RequestTimeout},
		{"IdempotencyTTL", cfg.IdempotencyTTL},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
		{"NotifyTimeout", cfg.NotifyTimeout},
		{"SMTPTimeout", cfg.SMTPTimeout},
		{"LockTTL", cfg.LockTTL},
		{"LockRetryDelay", cfg.LockRetryDelay},
	}
	for _, d := range durations {
		if d.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	if cfg.LockRetries < 0 {
		errors = append(errors, fmt.Sprintf("LockRetries cannot be negative, got: %d", cfg.LockRetries))
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		errors = append(errors, fmt.Sprintf("BcryptCost must be between 4 and 31, got: %d", cfg.BcryptCost))
	}
	if cfg.AdminPasswordHash != "" && !strings.HasPrefix(cfg.AdminPasswordHash, "$2") {
		errors = append(errors, "AdminPasswordHash must be a bcrypt hash")
	}
	if cfg.Ledger.NotifyOnChange && cfg.NotifyTopic == "" {
		errors = append(errors, "NotifyTopic cannot be empty when NotifyOnChange is enabled")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (l Ledger) validate() []string {
	var errors []string

	if len(l.Rooms) == 0 {
		errors = append(errors, "Rooms must list at least one room")
	}
	seen := make(map[string]struct{}, len(l.Rooms))
	for _, room := range l.Rooms {
		if _, dup := seen[room]; dup {
			errors = append(errors, fmt.Sprintf("Rooms contains a duplicate: %s", room))
		}
		seen[room] = struct{}{}
	}

	if !timeOfDayRegex.MatchString(l.DayStart) {
		errors = append(errors, fmt.Sprintf("DayStart must be in HH:MM format (00:00-23:59), got: %s", l.DayStart))
	}
	if !timeOfDayRegex.MatchString(l.DayEnd) {
		errors = append(errors, fmt.Sprintf("DayEnd must be in HH:MM format (00:00-23:59), got: %s", l.DayEnd))
	}
	if l.SlotMinutes <= 0 || l.SlotMinutes > 240 {
		errors = append(errors, fmt.Sprintf("SlotMinutes must be between 1 and 240, got: %d", l.SlotMinutes))
	}
	if len(errors) == 0 {
		start, end := minuteOfDay(l.DayStart), minuteOfDay(l.DayEnd)
		if end <= start {
			errors = append(errors, fmt.Sprintf("DayEnd (%s) must be after DayStart (%s)", l.DayEnd, l.DayStart))
		} else if (end-start)%l.SlotMinutes != 0 {
			errors = append(errors, fmt.Sprintf("operating window %s-%s is not a multiple of %d minutes", l.DayStart, l.DayEnd, l.SlotMinutes))
		}
	}

	if l.ContactRegion == "" {
		errors = append(errors, "ContactRegion cannot be empty")
	}

	return errors
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"storage_driver", cfg.StorageDriver,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"data_dir", cfg.DataDir,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"rooms", cfg.Ledger.Rooms,
		"day_start", cfg.Ledger.DayStart,
		"day_end", cfg.Ledger.DayEnd,
		"slot_minutes", cfg.Ledger.SlotMinutes,
		"require_secret", cfg.Ledger.RequireSecret,
		"require_contact", cfg.Ledger.RequireContact,
		"require_title", cfg.Ledger.RequireTitle,
		"notify_on_change", cfg.Ledger.NotifyOnChange,
		"notify_topic", cfg.NotifyTopic,
		"admin_enabled", cfg.AdminEnabled(),
		"lock_ttl", cfg.LockTTL,
		"lock_retries", cfg.LockRetries,
	)
}

func minuteOfDay(hhmm string) int {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return -1
	}
	return t.Hour()*60 + t.Minute()
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
