package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/couchcryptid/crowflies/internal/dataset"
	"github.com/couchcryptid/crowflies/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DatasetPath     string
	Duplicates      dataset.DuplicatePolicy
	Unit            domain.Unit
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka distance query stream. Disabled unless KAFKA_ENABLED=true.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSourceTopic   string
	KafkaSinkTopic     string
	KafkaGroupID       string
	BatchSize          int
	BatchFlushInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	unit, err := domain.ParseUnit(sharedcfg.EnvOrDefault("DISTANCE_UNIT", "nm"))
	if err != nil {
		return nil, fmt.Errorf("invalid DISTANCE_UNIT: %w", err)
	}

	duplicates, err := dataset.ParseDuplicatePolicy(sharedcfg.EnvOrDefault("DUPLICATE_POLICY", "reject"))
	if err != nil {
		return nil, fmt.Errorf("invalid DUPLICATE_POLICY: %w", err)
	}

	kafkaEnabled := false
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		if v != "true" && v != "false" {
			return nil, fmt.Errorf("invalid KAFKA_ENABLED %q: want true or false", v)
		}
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		DatasetPath:     sharedcfg.EnvOrDefault("DATASET_PATH", "data/us_airports.csv"),
		Duplicates:      duplicates,
		Unit:            unit,
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled:       kafkaEnabled,
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "distance-queries"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "distance-results"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "crowflies"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}

	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}
