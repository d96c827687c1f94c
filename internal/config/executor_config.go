package config

// ExecutorConfig defines configuration for the comparison executor pool.
type ExecutorConfig struct {
	// PoolSize is the requested number of executors. The pool clamps it to
	// a small ceiling regardless of the configured value.
	PoolSize int `json:"pool_size,omitempty" yaml:"pool_size,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultExecutorConfig creates default executor configuration
func NewDefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		PoolSize: DefaultExecutorPoolSize,
	}
}
