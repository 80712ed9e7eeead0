package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/okian/accredit/pkg/metrics"
)

// Defaults for the cache-backed store.
const (
	DefaultTTL             = 24 * time.Hour
	DefaultCleanupInterval = 10 * time.Minute

	defaultMetricsUpdateInterval = 5 * time.Second
)

// CacheStore is an in-memory Store whose entries expire after a TTL.
type CacheStore struct {
	items *cache.Cache

	ttl                   time.Duration
	cleanupInterval       time.Duration
	metricsUpdateInterval time.Duration

	mu       sync.RWMutex
	latestID string
	latestAt time.Time

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewCacheStore constructs a store and starts its metrics updater.
func NewCacheStore(ctx context.Context, opts ...Option) *CacheStore {
	s := &CacheStore{
		ttl:                   DefaultTTL,
		cleanupInterval:       DefaultCleanupInterval,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.items = cache.New(s.ttl, s.cleanupInterval)
	s.items.OnEvicted(func(string, interface{}) {
		metrics.UpdateReportsStored(s.items.ItemCount())
	})

	s.startMetricsUpdater(ctx)
	return s
}

// Save implements Store.Save. A finished report becomes the latest one when
// it is newer than the current latest.
func (s *CacheStore) Save(ctx context.Context, r Report) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositorySaveLatency(float64(time.Since(start).Milliseconds()))
	}()

	if r.ID == "" {
		metrics.RecordErrorByComponent("repository", "invalid_report")
		return fmt.Errorf("%w: empty id", ErrInvalidReport)
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = r.UpdatedAt
	}
	s.items.Set(r.ID, r, cache.DefaultExpiration)

	if r.Status == StatusDone {
		s.mu.Lock()
		if s.latestID == "" || !r.UpdatedAt.Before(s.latestAt) {
			s.latestID = r.ID
			s.latestAt = r.UpdatedAt
		}
		s.mu.Unlock()
	}

	metrics.UpdateReportsStored(s.items.ItemCount())
	return nil
}

// Get implements Store.Get.
func (s *CacheStore) Get(ctx context.Context, id string) (Report, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	v, ok := s.items.Get(id)
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Report{}, ErrNotFound
	}
	return v.(Report), nil
}

// Latest implements Store.Latest. It returns ErrNotFound when no report has
// finished yet or the latest one has expired.
func (s *CacheStore) Latest(ctx context.Context) (Report, error) {
	s.mu.RLock()
	id := s.latestID
	s.mu.RUnlock()
	if id == "" {
		return Report{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Count returns the number of reports held, expired ones included until the
// next cleanup.
func (s *CacheStore) Count(ctx context.Context) int {
	return s.items.ItemCount()
}

// Close stops the background metrics updater.
func (s *CacheStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

func (s *CacheStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateReportsStored(s.items.ItemCount())
			}
		}
	}()
}
