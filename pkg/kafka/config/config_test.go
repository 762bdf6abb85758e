package kafka_config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, -1, cfg.ProducerRequireAcks)
	assert.Equal(t, "snappy", cfg.ProducerCompression)
	assert.Equal(t, "roombook-notifier", cfg.ConsumerGroupID)
	assert.Equal(t, int64(-1), cfg.ConsumerStartOffset)
	assert.Equal(t, 500*time.Millisecond, cfg.ConsumerMaxWait)
	assert.Equal(t, "booking-events-dlq", cfg.DLQTopic)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("KAFKA_CONSUMER_MAX_RETRIES", "5")
	t.Setenv("KAFKA_PRODUCER_COMPRESSION", "zstd")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers)
	assert.Equal(t, 5, cfg.ConsumerMaxRetries)
	assert.Equal(t, "zstd", cfg.ProducerCompression)
}

func TestLoad_RejectsMalformedValue(t *testing.T) {
	t.Setenv("KAFKA_CONSUMER_MAX_WAIT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_AggregatesProblems(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Brokers = []string{""}
	cfg.ProducerCompression = "brotli"
	cfg.ProducerRequireAcks = 2
	cfg.ConsumerGroupID = ""

	err = cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "1. Broker 0 cannot be empty")
	assert.Contains(t, msg, "ProducerCompression")
	assert.Contains(t, msg, "ProducerRequireAcks")
	assert.Contains(t, msg, "4. ConsumerGroupID cannot be empty")
}
