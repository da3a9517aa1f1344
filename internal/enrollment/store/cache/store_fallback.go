package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"coursebatch/pkg/platform/circuit"
	"coursebatch/pkg/platform/sentinel"
)

// Store is the list cache contract shared by the Redis and in-memory stores.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// FallbackStore reads and writes the primary store and mirrors writes into a
// local fallback. Once the breaker opens, reads are served from the fallback
// while the primary keeps being probed until it recovers.
type FallbackStore struct {
	primary  Store
	fallback Store
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

type FallbackOption func(*FallbackStore)

func WithBreaker(b *circuit.Breaker) FallbackOption {
	return func(s *FallbackStore) {
		if b != nil {
			s.breaker = b
		}
	}
}

func WithFallbackLogger(logger *slog.Logger) FallbackOption {
	return func(s *FallbackStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewFallback(primary, fallback Store, opts ...FallbackOption) *FallbackStore {
	s := &FallbackStore{
		primary:  primary,
		fallback: fallback,
		breaker:  circuit.New("list_cache"),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FallbackStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.primary.Get(ctx, key)
	if err == nil || errors.Is(err, sentinel.ErrNotFound) {
		if s.recordSuccess(ctx) {
			return value, err
		}
		return s.fallback.Get(ctx, key)
	}
	if s.recordFailure(ctx, err) {
		return s.fallback.Get(ctx, key)
	}
	return nil, err
}

func (s *FallbackStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.fallback.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	if err := s.primary.Set(ctx, key, value, ttl); err != nil {
		if s.recordFailure(ctx, err) {
			return nil
		}
		return err
	}
	s.recordSuccess(ctx)
	return nil
}

// Degraded reports whether reads are currently served by the fallback.
func (s *FallbackStore) Degraded() bool {
	return s.breaker.IsOpen()
}

func (s *FallbackStore) recordSuccess(ctx context.Context) bool {
	usePrimary, change := s.breaker.RecordSuccess()
	if change.Closed {
		s.logger.InfoContext(ctx, "list cache primary recovered", "breaker", s.breaker.Name())
	}
	return usePrimary
}

func (s *FallbackStore) recordFailure(ctx context.Context, err error) bool {
	useFallback, change := s.breaker.RecordFailure()
	if change.Opened {
		s.logger.WarnContext(ctx, "list cache primary failing; serving from local fallback",
			"breaker", s.breaker.Name(),
			"error", err,
		)
	}
	return useFallback
}
