package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/econ-calendar-service/internal/domain"
)

// DefaultUserAgent is sent on every outbound fetch; the source rejects obvious bots.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115 Safari/537.36"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Source fetch configuration.
	SourceURL    string
	SourceLabel  string
	UserAgent    string
	FetchTimeout time.Duration

	// Response shaping.
	FilterProfile    string
	ExtendedResponse bool

	// Optional Kafka fan-out of filtered events.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool

	// Optional Sentry error reporting.
	SentryDSN         string
	SentryEnvironment string
	SentrySampleRate  float64
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("FETCH_TIMEOUT", "10s"))
	if err != nil || fetchTimeout <= 0 {
		return nil, errors.New("invalid FETCH_TIMEOUT")
	}

	sampleRate, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("SENTRY_SAMPLE_RATE", "1.0"), 64)
	if err != nil || sampleRate < 0 || sampleRate > 1 {
		return nil, errors.New("invalid SENTRY_SAMPLE_RATE")
	}

	extended, err := parseBool("EXTENDED_RESPONSE", false)
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		SourceURL:    sharedcfg.EnvOrDefault("SOURCE_URL", "https://www.forexfactory.com/calendar.php?day=today"),
		SourceLabel:  sharedcfg.EnvOrDefault("SOURCE_LABEL", "forexfactory"),
		UserAgent:    sharedcfg.EnvOrDefault("USER_AGENT", DefaultUserAgent),
		FetchTimeout: fetchTimeout,

		FilterProfile:    sharedcfg.EnvOrDefault("FILTER_PROFILE", domain.ProfileStrict),
		ExtendedResponse: extended,

		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "economic-calendar-events"),
		KafkaEnabled: len(brokers) > 0,

		SentryDSN:         os.Getenv("SENTRY_DSN"),
		SentryEnvironment: sharedcfg.EnvOrDefault("SENTRY_ENVIRONMENT", "production"),
		SentrySampleRate:  sampleRate,
	}

	if cfg.SourceURL == "" {
		return nil, errors.New("SOURCE_URL is required")
	}
	if _, err := domain.FilterForProfile(cfg.FilterProfile); err != nil {
		return nil, errors.New("invalid FILTER_PROFILE: must be strict or loose")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func parseBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New("invalid " + key)
	}
	return b, nil
}
