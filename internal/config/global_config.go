package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vuon9/workdiff/internal/common"
)

// GlobalConfig contains all configuration sections for the application
type GlobalConfig struct {
	CacheConfig    CacheConfig    `json:"cache_config,omitempty" yaml:"cache_config,omitempty"`
	DiffConfig     DiffConfig     `json:"diff_config,omitempty" yaml:"diff_config,omitempty"`
	ExecutorConfig ExecutorConfig `json:"executor_config,omitempty" yaml:"executor_config,omitempty"`
	Groups         []GroupConfig  `json:"groups,omitempty" yaml:"groups,omitempty" validate:"dive"`
	LogConfig      LogConfig      `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	WatcherConfig  WatcherConfig  `json:"watcher_config,omitempty" yaml:"watcher_config,omitempty"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		CacheConfig:    NewDefaultCacheConfig(),
		DiffConfig:     NewDefaultDiffConfig(),
		ExecutorConfig: NewDefaultExecutorConfig(),
		LogConfig:      NewDefaultLogConfig(),
		WatcherConfig:  NewDefaultWatcherConfig(),
	}
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// It determines the config file path using GetConfigPath and supports both
// JSON and YAML formats. YAML is preferred if the file extension is .yaml or
// .yml. The loaded configuration is validated before being returned.
func LoadGlobalConfig(providedPath string) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, common.WrapError(err, "failed to read config file")
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, common.WrapError(err, "failed to parse config content")
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, common.WrapError(err, "config validation failed")
	}

	return cfg, nil
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	ext := filepath.Ext(filePath)
	if isYAMLFile(ext) {
		return parseYAMLConfig(data, filePath, cfg)
	}
	return parseJSONConfig(data, filePath, cfg)
}

// isYAMLFile checks if the file extension indicates a YAML file
func isYAMLFile(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}

// parseYAMLConfig parses YAML configuration
func parseYAMLConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return common.NewError("failed to unmarshal YAML from '%s': %w", filePath, err)
	}
	return nil
}

// parseJSONConfig parses JSON configuration
func parseJSONConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := json.Unmarshal(data, cfg); err != nil {
		return common.NewError("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}
