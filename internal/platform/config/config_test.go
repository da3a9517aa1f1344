package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("ENROLLMENT_ADDR", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("ENROLLMENT_LIST_CACHE_TTL", "")

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Empty(t, cfg.Postgres.DSN)
	assert.Nil(t, cfg.Kafka.Brokers)
	assert.Equal(t, 5*time.Minute, cfg.Enrollment.ListCacheTTL)
	assert.Equal(t, 8, cfg.Enrollment.ListConcurrency)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ENROLLMENT_ADDR", ":9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("ENROLLMENT_LIST_CACHE_TTL", "30s")
	t.Setenv("ENROLLMENT_LIST_CONCURRENCY", "not-a-number")
	t.Setenv("ENROLLMENT_ALLOW_UNENROLL_AFTER_COMPLETION", "true")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30*time.Second, cfg.Enrollment.ListCacheTTL)
	assert.Equal(t, 8, cfg.Enrollment.ListConcurrency)
	assert.True(t, cfg.Enrollment.AllowUnenrollAfterCompletion)
}
