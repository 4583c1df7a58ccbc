package cache

import (
	"time"

	"github.com/iwvelando/retirement-forecast/internal/simulation"
	"github.com/iwvelando/retirement-forecast/pkg/constants"
	"go.uber.org/zap"
)

// Entry is one persisted cache row. Writes with the same hash supersede the
// previous row rather than appending.
type Entry struct {
	InputsHash string
	Results    simulation.AggregatedResult
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// Store is the persistence collaborator behind the cache. Get returns
// (nil, nil) when the hash is absent. Implementations may race under
// concurrent callers; upserts keyed by the same hash make redundant writes
// harmless.
type Store interface {
	Get(hash string) (*Entry, error)
	Upsert(entry Entry) error
	DeleteExpired(now time.Time) error
}

// Cache wraps a Store with TTL handling. Store failures are non-fatal by
// design: a failed read is a miss and a failed write is dropped, so the
// caller always falls back to direct computation.
type Cache struct {
	store  Store
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// New builds a cache over the given store. A non-positive ttl selects the
// default of 24 hours.
func New(logger *zap.Logger, store Store, ttl time.Duration) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}
	return &Cache{store: store, ttl: ttl, now: time.Now, logger: logger}
}

// WithClock overrides the time source. Tests use this to step past expiry.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Lookup returns the cached aggregate for the hash, or a miss when the row
// is absent, expired, or the store fails.
func (c *Cache) Lookup(hash string) (*simulation.AggregatedResult, bool) {
	entry, err := c.store.Get(hash)
	if err != nil {
		c.logger.Warn("cache read failed, falling back to computation",
			zap.String("op", "cache.Lookup"),
			zap.Error(err),
		)
		return nil, false
	}
	if entry == nil {
		return nil, false
	}
	if entry.ExpiresAt.Before(c.now()) {
		return nil, false
	}

	results := entry.Results
	return &results, true
}

// Put upserts the aggregate under the hash with a fresh TTL and
// opportunistically purges expired rows.
func (c *Cache) Put(hash string, results simulation.AggregatedResult) {
	now := c.now()
	entry := Entry{
		InputsHash: hash,
		Results:    results,
		CreatedAt:  now,
		ExpiresAt:  now.Add(c.ttl),
	}

	if err := c.store.Upsert(entry); err != nil {
		c.logger.Warn("cache write failed",
			zap.String("op", "cache.Put"),
			zap.Error(err),
		)
		return
	}

	if err := c.store.DeleteExpired(now); err != nil {
		c.logger.Debug("expired cache purge failed",
			zap.String("op", "cache.Put"),
			zap.Error(err),
		)
	}
}
