package config

// CacheConfig defines configuration for the in-memory result cache.
type CacheConfig struct {
	// MaxEntries bounds the number of cached comparison results. Once full,
	// the least-recently-used entry is evicted.
	MaxEntries int `json:"max_entries,omitempty" yaml:"max_entries,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultCacheConfig creates default cache configuration
func NewDefaultCacheConfig() CacheConfig {
	return CacheConfig{
		MaxEntries: DefaultCacheMaxEntries,
	}
}
