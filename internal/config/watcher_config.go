package config

// WatcherConfig defines configuration for watch mode.
type WatcherConfig struct {
	// DebounceMs is how long to coalesce filesystem events before starting
	// a fresh run.
	DebounceMs int `json:"debounce_ms,omitempty" yaml:"debounce_ms,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultWatcherConfig creates default watcher configuration
func NewDefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		DebounceMs: DefaultWatcherDebounceMs,
	}
}
