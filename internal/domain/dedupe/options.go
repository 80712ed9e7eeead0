package dedupe

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Option applies a configuration option to the InMemoryDeduper.
type Option func(*inMemoryDeduper)

// WithTTL sets how long a recorded id is remembered. A non-positive ttl
// keeps ids until they are unrecorded.
func WithTTL(ttl time.Duration) Option {
	return func(d *inMemoryDeduper) {
		if ttl <= 0 {
			d.ttl = cache.NoExpiration
			return
		}
		d.ttl = ttl
	}
}

// WithCleanupInterval sets how often expired ids are swept. A non-positive
// interval disables the sweeper; expired ids are then dropped lazily.
func WithCleanupInterval(interval time.Duration) Option {
	return func(d *inMemoryDeduper) {
		d.cleanupInterval = interval
	}
}
