package config

// DiffConfig defines configuration for the diff engine's file handling.
type DiffConfig struct {
	// MaxFileSizeMB bounds the size of files eligible for diffing. Larger
	// files are skipped before any content is read.
	MaxFileSizeMB int `json:"max_file_size_mb,omitempty" yaml:"max_file_size_mb,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultDiffConfig creates default diff configuration
func NewDefaultDiffConfig() DiffConfig {
	return DiffConfig{
		MaxFileSizeMB: DefaultDiffMaxFileSizeMB,
	}
}
