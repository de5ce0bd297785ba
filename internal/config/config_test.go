package config

import (
	"testing"
	"time"

	"github.com/couchcryptid/crowflies/internal/dataset"
	"github.com/couchcryptid/crowflies/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/us_airports.csv", cfg.DatasetPath)
	assert.Equal(t, dataset.RejectDuplicates, cfg.Duplicates)
	assert.Equal(t, domain.NauticalMiles, cfg.Unit)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "distance-queries", cfg.KafkaSourceTopic)
	assert.Equal(t, "distance-results", cfg.KafkaSinkTopic)
	assert.Equal(t, "crowflies", cfg.KafkaGroupID)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATASET_PATH", "/srv/airports.csv.zst")
	t.Setenv("DUPLICATE_POLICY", "first")
	t.Setenv("DISTANCE_UNIT", "km")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/airports.csv.zst", cfg.DatasetPath)
	assert.Equal(t, dataset.FirstWins, cfg.Duplicates)
	assert.Equal(t, domain.Kilometers, cfg.Unit)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_InvalidBatchFlushInterval(t *testing.T) {
	t.Setenv("BATCH_FLUSH_INTERVAL", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_FLUSH_INTERVAL")
}

func TestLoad_InvalidUnit(t *testing.T) {
	t.Setenv("DISTANCE_UNIT", "leagues")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DISTANCE_UNIT")
}

func TestLoad_InvalidDuplicatePolicy(t *testing.T) {
	t.Setenv("DUPLICATE_POLICY", "merge")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DUPLICATE_POLICY")
}

func TestLoad_InvalidKafkaEnabled(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "yes")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_ENABLED")
}
