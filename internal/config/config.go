package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Data source configuration. Keys are optional; sources without a key
	// are skipped.
	AirNowAPIKey        string
	EBirdAPIKey         string
	SourceTimeout       time.Duration
	ERDDAPTimeout       time.Duration
	WeatherGovUserAgent string

	// Gather cycle configuration.
	GatherInterval     time.Duration
	PublishMaxAttempts int

	// Kafka snapshot publication.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSnapshotTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	sourceTimeout, err := parsePositiveDuration("SOURCE_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	erddapTimeout, err := parsePositiveDuration("ERDDAP_TIMEOUT", "20s")
	if err != nil {
		return nil, err
	}
	gatherInterval, err := parsePositiveDuration("GATHER_INTERVAL", "24h")
	if err != nil {
		return nil, err
	}

	publishAttempts, err := strconv.Atoi(sharedcfg.EnvOrDefault("PUBLISH_MAX_ATTEMPTS", "3"))
	if err != nil || publishAttempts < 1 || publishAttempts > 10 {
		return nil, errors.New("invalid PUBLISH_MAX_ATTEMPTS: must be between 1 and 10")
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		AirNowAPIKey:        os.Getenv("AIRNOW_API_KEY"),
		EBirdAPIKey:         os.Getenv("EBIRD_API_KEY"),
		SourceTimeout:       sourceTimeout,
		ERDDAPTimeout:       erddapTimeout,
		WeatherGovUserAgent: sharedcfg.EnvOrDefault("WEATHER_GOV_USER_AGENT", "(env-context-service, github.com/couchcryptid/env-context-service)"),

		GatherInterval:     gatherInterval,
		PublishMaxAttempts: publishAttempts,

		KafkaEnabled:       kafkaEnabled,
		KafkaBrokers:       brokers,
		KafkaSnapshotTopic: sharedcfg.EnvOrDefault("KAFKA_SNAPSHOT_TOPIC", "environmental-snapshots"),
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}
