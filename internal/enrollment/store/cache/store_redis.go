package cache

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	dErrors "coursebatch/pkg/domain-errors"
	"coursebatch/pkg/platform/sentinel"
)

var listCacheGetDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "coursebatch_list_cache_get_duration_ms",
	Help:    "Latency of enrolled course list cache reads in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
})

// RedisStore shares list cache entries between instances.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	defer func() {
		listCacheGetDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	value, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStore, "read list cache")
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeStore, "write list cache")
	}
	return nil
}
