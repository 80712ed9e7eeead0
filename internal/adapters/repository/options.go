package repository

import (
	"time"

	cache "github.com/patrickmn/go-cache"
)

// Option applies a configuration option to the CacheStore.
type Option func(*CacheStore)

// WithTTL sets how long reports are kept. Non-positive keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *CacheStore) {
		if ttl > 0 {
			s.ttl = ttl
			return
		}
		s.ttl = cache.NoExpiration
	}
}

// WithCleanupInterval sets how often expired reports are purged.
func WithCleanupInterval(interval time.Duration) Option {
	return func(s *CacheStore) {
		if interval > 0 {
			s.cleanupInterval = interval
		}
	}
}

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *CacheStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}
