package config

import (
	"os"
	"strings"
	"sync"
	"time"

	"coverflow/pkg/domainerrors"
)

// Insurer holds credentials and connection settings for the insurer API.
type Insurer struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
	// Environment tags the credential set (e.g. "sandbox", "production") and
	// keys the token cache.
	Environment string
	// DefaultProductCode is used when a submission is created without an
	// explicit product.
	DefaultProductCode string
}

// Config captures everything the process reads from the environment.
type Config struct {
	Addr        string
	DatabaseURL string
	RedisURL    string

	// AuditKafkaBrokers enables the Kafka audit sink when non-empty.
	AuditKafkaBrokers []string
	AuditKafkaTopic   string

	Insurer Insurer
}

var (
	once    sync.Once
	cached  Config
	loadErr error
)

// Load reads the environment exactly once per process lifetime and memoizes the
// result. Missing insurer credentials are a startup-class failure: no retry, the
// caller is expected to exit.
func Load() (Config, error) {
	once.Do(func() {
		cached, loadErr = FromEnv()
	})
	return cached, loadErr
}

// FromEnv builds a Config from environment variables without memoization so
// tests can exercise it repeatedly.
func FromEnv() (Config, error) {
	ins := Insurer{
		BaseURL:            os.Getenv("INSURER_BASE_URL"),
		ClientID:           os.Getenv("INSURER_CLIENT_ID"),
		ClientSecret:       os.Getenv("INSURER_CLIENT_SECRET"),
		Environment:        getDefault("INSURER_ENV", "sandbox"),
		DefaultProductCode: os.Getenv("INSURER_DEFAULT_PRODUCT"),
		Timeout:            30 * time.Second,
	}

	if raw := os.Getenv("INSURER_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, domainerrors.Newf(domainerrors.CodeConfig, "INSURER_TIMEOUT is not a duration: %q", raw)
		}
		ins.Timeout = d
	}

	for _, required := range []struct{ name, value string }{
		{"INSURER_BASE_URL", ins.BaseURL},
		{"INSURER_CLIENT_ID", ins.ClientID},
		{"INSURER_CLIENT_SECRET", ins.ClientSecret},
	} {
		if required.value == "" {
			return Config{}, domainerrors.Newf(domainerrors.CodeConfig, "missing required environment variable %s", required.name)
		}
	}

	cfg := Config{
		Addr:            getDefault("COVERFLOW_ADDR", ":8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		AuditKafkaTopic: getDefault("AUDIT_KAFKA_TOPIC", "coverflow.audit"),
		Insurer:         ins,
	}

	if brokers := os.Getenv("AUDIT_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.AuditKafkaBrokers = append(cfg.AuditKafkaBrokers, b)
			}
		}
	}

	return cfg, nil
}

func getDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
