package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/vuon9/workdiff/internal/common"
	"github.com/vuon9/workdiff/internal/models"
)

// entry is what the cache stores. The originating canonical key string is
// kept alongside the result and verified on every hit, so a hash collision
// degrades to a miss instead of returning a wrong result.
type entry struct {
	canonicalKey string
	result       models.ComparisonResult
}

// ResultCache is a bounded, in-memory, least-recently-used store of
// comparison results. A pair compared in either direction yields a hit: the
// reverse direction is derived at read time by swapping the counts, never
// duplicated at write time.
//
// The cache holds only the numeric payload reliably; Label and
// TargetRootPath on returned results are whatever the originating request
// carried and callers are expected to overwrite them for their own context.
type ResultCache struct {
	store  *lru.Cache[uint64, entry]
	logger zerolog.Logger
}

// NewResultCache creates a cache bounded to capacity entries. Once full,
// every insert evicts the least-recently-used entry, in access order.
func NewResultCache(capacity int, logger zerolog.Logger) (*ResultCache, error) {
	if capacity <= 0 {
		return nil, common.NewValidationError("capacity", capacity, "cache capacity must be positive")
	}
	store, err := lru.New[uint64, entry](capacity)
	if err != nil {
		return nil, common.WrapError(err, "failed to create LRU store")
	}
	return &ResultCache{
		store:  store,
		logger: logger.With().Str("component", "ResultCache").Logger(),
	}, nil
}

// Get looks up a previously computed result. The direct key is checked
// first; on a direct miss the reverse key is consulted and a hit is
// synthesized with added/removed swapped and the resolved path rewritten to
// the caller's requested compare path. Hits promote the entry to
// most-recently-used. The returned result is a copy; mutating it cannot
// corrupt cached state.
func (c *ResultCache) Get(parts KeyParts) (models.ComparisonResult, bool) {
	if cached, ok := c.lookup(parts); ok {
		return cached.result, true
	}

	reversed := parts.Reversed()
	cached, ok := c.lookup(reversed)
	if !ok {
		return models.ComparisonResult{}, false
	}

	// Only the numeric counts are reusable across direction. Existence and
	// label context belong to the caller, not the cached entry: a stored
	// result implies both files existed at the recorded mtimes.
	counts := cached.result.Counts.Swapped()
	synthesized := models.ComparisonResult{
		TotalChangedLines:  counts.Total(),
		Counts:             counts,
		ResolvedTargetPath: parts.ComparePath,
		Exists:             true,
	}
	c.logger.Debug().Str("compare_path", parts.ComparePath).Msg("Reverse cache hit")
	return synthesized, true
}

// Set stores a result under the direct key of the request as issued and
// enforces the capacity bound.
func (c *ResultCache) Set(parts KeyParts, result models.ComparisonResult) {
	c.store.Add(parts.hash(), entry{
		canonicalKey: parts.canonical(),
		result:       result,
	})
}

// Len returns the current number of cached entries.
func (c *ResultCache) Len() int {
	return c.store.Len()
}

// lookup fetches and verifies one directed key.
func (c *ResultCache) lookup(parts KeyParts) (entry, bool) {
	cached, ok := c.store.Get(parts.hash())
	if !ok {
		return entry{}, false
	}
	if cached.canonicalKey != parts.canonical() {
		c.logger.Warn().Str("key", parts.canonical()).Msg("Cache key hash collision, treating as miss")
		return entry{}, false
	}
	return cached, true
}
