// Package dedupe tracks submission ids so that a report submission is
// computed at most once within a time window.
package dedupe

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// Defaults for the in-memory deduper.
const (
	DefaultTTL             = 10 * time.Minute
	DefaultCleanupInterval = time.Minute
)

// Deduper records seen submission ids.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so the submission can be retried, e.g. after the
	// job queue rejected it.
	Unrecord(ctx context.Context, id string)

	// Size returns the number of remembered ids, including expired ids not
	// yet swept.
	Size() int64
}

// inMemoryDeduper remembers ids in a TTL cache. An id expires ttl after it
// was first recorded.
type inMemoryDeduper struct {
	ttl             time.Duration
	cleanupInterval time.Duration
	seen            *cache.Cache
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		ttl:             DefaultTTL,
		cleanupInterval: DefaultCleanupInterval,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = cache.New(d.ttl, d.cleanupInterval)
	return d
}

// SeenAndRecord relies on cache.Add failing for a live key, which makes the
// check and the insert one atomic step.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	return d.seen.Add(id, struct{}{}, cache.DefaultExpiration) != nil
}

// Unrecord removes an ID from the seen list, allowing it to be retried.
func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.seen.Delete(id)
}

// Size returns the current number of entries in the deduper.
func (d *inMemoryDeduper) Size() int64 {
	return int64(d.seen.ItemCount())
}
