package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full process configuration, assembled once in main.
type Config struct {
	Server     Server
	Postgres   PostgresConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Content    ContentConfig
	Enrollment EnrollmentConfig
	LogLevel   string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	AdminToken    string
	JWTSigningKey string
	JWTIssuer     string
}

// PostgresConfig holds database connection settings. An empty DSN selects the
// in-memory stores.
type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis connection settings. An empty URL selects the
// in-memory list cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds event publishing settings. No brokers means events are
// kept in process.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// ContentConfig points at the content hierarchy service.
type ContentConfig struct {
	BaseURL string
	Timeout time.Duration
}

// EnrollmentConfig tunes enrollment behaviour.
type EnrollmentConfig struct {
	ListCacheTTL                 time.Duration
	ListConcurrency              int
	AllowUnenrollAfterCompletion bool
	ReconcileSchedule            string
}

// FromEnv builds a Config from environment variables, loading a .env file
// first when one is present.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		Server: Server{
			Addr:          envString("ENROLLMENT_ADDR", ":8080"),
			AdminToken:    os.Getenv("ADMIN_API_TOKEN"),
			JWTSigningKey: envString("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:     envString("JWT_ISSUER", "coursebatch"),
		},
		Postgres: PostgresConfig{
			DSN:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: envList("KAFKA_BROKERS"),
			Topic:   envString("KAFKA_ENROLLMENT_TOPIC", "enrollment.events"),
		},
		Content: ContentConfig{
			BaseURL: os.Getenv("CONTENT_SERVICE_URL"),
			Timeout: envDuration("CONTENT_SERVICE_TIMEOUT", 5*time.Second),
		},
		Enrollment: EnrollmentConfig{
			ListCacheTTL:                 envDuration("ENROLLMENT_LIST_CACHE_TTL", 5*time.Minute),
			ListConcurrency:              envInt("ENROLLMENT_LIST_CONCURRENCY", 8),
			AllowUnenrollAfterCompletion: os.Getenv("ENROLLMENT_ALLOW_UNENROLL_AFTER_COMPLETION") == "true",
			ReconcileSchedule:            os.Getenv("ENROLLMENT_RECONCILE_SCHEDULE"),
		},
		LogLevel: envString("LOG_LEVEL", "info"),
	}
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
