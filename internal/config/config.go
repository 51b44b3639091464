package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"

	devJWTSecret = "dev-only-insecure-secret"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Analysis  AnalysisConfig
	Auth      AuthConfig
	Retention RetentionConfig
	Telemetry TelemetryConfig
	Keys      Keys
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	SessionStore       string
}

type DatabaseConfig struct {
	Connection string
}

type AnalysisConfig struct {
	ServiceURL string
	Timeout    time.Duration
}

type AuthConfig struct {
	JWTSecret string
	JWTTTL    time.Duration
}

type RetentionConfig struct {
	SessionWindow       time.Duration
	SessionHistoryLimit int
	PatientRetention    time.Duration
	SweepInterval       time.Duration
}

type TelemetryConfig struct {
	MetricsEnabled bool
	OtelEnabled    bool
	OtelEndpoint   string
}

type Keys struct {
	EventTopic string // in-process retention events
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			SessionStore:       getEnv("SESSION_STORE", SessionStoreMemory),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Analysis: AnalysisConfig{
			ServiceURL: getEnv("ANALYSIS_SERVICE_URL", "http://localhost:5002"),
			Timeout:    getEnvAsDuration("ANALYSIS_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			JWTTTL:    getEnvAsDuration("JWT_TTL", 7*24*time.Hour),
		},
		Retention: RetentionConfig{
			SessionWindow:       getEnvAsDuration("SESSION_INACTIVITY_WINDOW", time.Hour),
			SessionHistoryLimit: getEnvAsInt("SESSION_HISTORY_LIMIT", 50),
			PatientRetention:    getEnvAsDuration("PATIENT_RETENTION", 30*24*time.Hour),
			SweepInterval:       getEnvAsDuration("SWEEP_INTERVAL", time.Minute),
		},
		Telemetry: TelemetryConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
			OtelEnabled:    getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Keys: Keys{
			EventTopic: getEnv("RETENTION_EVENT_TOPIC", "RETENTION_EVENTS"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Validate rejects settings the service cannot run with. Outside
// production a missing JWT secret falls back to a fixed development value.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		if c.IsProduction() {
			return errors.New("JWT_SECRET is required in production")
		}
		log.Println("[WARN] JWT_SECRET not set, using development secret")
		c.Auth.JWTSecret = devJWTSecret
	}
	switch c.App.SessionStore {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return errors.New("SESSION_STORE must be memory or redis")
	}
	if c.Analysis.Timeout <= 0 {
		return errors.New("ANALYSIS_TIMEOUT must be positive")
	}
	if c.Retention.SessionWindow <= 0 || c.Retention.PatientRetention <= 0 {
		return errors.New("retention windows must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
