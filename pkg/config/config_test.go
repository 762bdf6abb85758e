package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		StorageDriver:     DriverMongo,
		MongoURI:          DefaultMongoURI,
		MongoDatabaseName: DefaultMongoDatabaseName,
		MongoConnTimeout:  DefaultMongoConnTimeout,
		DataDir:           DefaultDataDir,
		Port:              DefaultPort,
		RateLimitRequests: DefaultRateLimitRequests,
		RateLimitWindow:   DefaultRateLimitWindow,
		RequestTimeout:    DefaultRequestTimeout,
		IdempotencyTTL:    DefaultIdempotencyTTL,
		MaxRequestSize:    DefaultMaxRequestSize,
		ReadTimeout:       DefaultReadTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
		ShutdownTimeout:   DefaultShutdownTimeout,
		Ledger: Ledger{
			Rooms:         DefaultRooms,
			DayStart:      DefaultDayStart,
			DayEnd:        DefaultDayEnd,
			SlotMinutes:   DefaultSlotMinutes,
			RequireSecret: DefaultRequireSecret,
			ContactRegion: DefaultContactRegion,
		},
		BcryptCost:     DefaultBcryptCost,
		NotifyTopic:    DefaultNotifyTopic,
		NotifyTimeout:  DefaultNotifyTimeout,
		SMTPTimeout:    DefaultSMTPTimeout,
		LockTTL:        DefaultLockTTL,
		LockRetries:    DefaultLockRetries,
		LockRetryDelay: DefaultLockRetryDelay,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "memory driver ignores mongo", mutate: func(c *Config) {
			c.StorageDriver = DriverMemory
			c.MongoURI = ""
		}},
		{name: "bad port", mutate: func(c *Config) { c.Port = "http" }, wantErr: "Port must be between"},
		{name: "unknown driver", mutate: func(c *Config) { c.StorageDriver = "sqlite" }, wantErr: "StorageDriver must be one of"},
		{name: "bad mongo uri", mutate: func(c *Config) { c.MongoURI = "postgres://u:p@db" }, wantErr: "MongoURI must start with"},
		{name: "csv without dir", mutate: func(c *Config) {
			c.StorageDriver = DriverCSV
			c.DataDir = ""
		}, wantErr: "DataDir cannot be empty"},
		{name: "no rooms", mutate: func(c *Config) { c.Ledger.Rooms = nil }, wantErr: "at least one room"},
		{name: "duplicate room", mutate: func(c *Config) { c.Ledger.Rooms = []string{"A", "A"} }, wantErr: "duplicate: A"},
		{name: "bad day start", mutate: func(c *Config) { c.Ledger.DayStart = "8am" }, wantErr: "DayStart must be in HH:MM"},
		{name: "inverted window", mutate: func(c *Config) {
			c.Ledger.DayStart = "18:00"
			c.Ledger.DayEnd = "08:00"
		}, wantErr: "must be after DayStart"},
		{name: "uneven window", mutate: func(c *Config) { c.Ledger.SlotMinutes = 45 }, wantErr: "not a multiple of 45 minutes"},
		{name: "zero duration", mutate: func(c *Config) { c.LockTTL = 0 }, wantErr: "LockTTL must be positive"},
		{name: "bcrypt cost", mutate: func(c *Config) { c.BcryptCost = 40 }, wantErr: "BcryptCost must be between"},
		{name: "plaintext admin password", mutate: func(c *Config) { c.AdminPasswordHash = "hunter2" }, wantErr: "must be a bcrypt hash"},
		{name: "notify without topic", mutate: func(c *Config) {
			c.Ledger.NotifyOnChange = true
			c.NotifyTopic = ""
		}, wantErr: "NotifyTopic cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_NumbersEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "0"
	cfg.RateLimitRequests = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1. Port")
	assert.Contains(t, err.Error(), "2. RateLimitRequests")
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv(EnvStorageDriver, "MEMORY")
	t.Setenv(EnvRooms, " Board Room , Focus Pod ,,")
	t.Setenv(EnvSlotMinutes, "15")
	t.Setenv(EnvRequireTitle, "false")
	t.Setenv(EnvContactRegion, "my")
	t.Setenv(EnvLockTTL, "not-a-duration")
	t.Setenv(EnvLogLevel, "error")

	cfg := Load("config-test")

	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.Equal(t, []string{"Board Room", "Focus Pod"}, cfg.Ledger.Rooms)
	assert.Equal(t, 15, cfg.Ledger.SlotMinutes)
	assert.False(t, cfg.Ledger.RequireTitle)
	assert.Equal(t, "MY", cfg.Ledger.ContactRegion)
	assert.Equal(t, DefaultLockTTL, cfg.LockTTL)
	assert.False(t, cfg.AdminEnabled())
}

func TestRedactMongoURI(t *testing.T) {
	assert.Equal(t, "mongodb://***:***@db:27017", redactMongoURI("mongodb://admin:s3cret@db:27017"))
	assert.Equal(t, DefaultMongoURI, redactMongoURI(DefaultMongoURI))
}

func TestNormalizePagination(t *testing.T) {
	assert.Equal(t, 10, NormalizePaginationLimit(0))
	assert.Equal(t, DefaultPaginationLimit, NormalizePaginationLimit(1000))
	assert.Equal(t, 25, NormalizePaginationLimit(25))
	assert.Equal(t, int64(0), NormalizeOffset(-3))
}
