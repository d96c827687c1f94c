package config

const (
	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3
	DefaultMaxLogAgeDays = 28

	// Diff Defaults
	DefaultDiffMaxFileSizeMB = 10

	// Cache Defaults
	DefaultCacheMaxEntries = 128

	// Executor Defaults
	DefaultExecutorPoolSize = 4

	// Watcher Defaults
	DefaultWatcherDebounceMs = 200
)
