package config

import (
	"path/filepath"
)

// Config represents the complete iazod configuration.
type Config struct {
	Database   DatabaseConfig   `toml:"database" mapstructure:"database"`
	Index      IndexConfig      `toml:"index" mapstructure:"index"`
	Governance GovernanceConfig `toml:"governance" mapstructure:"governance"`
	Log        LogConfig        `toml:"log" mapstructure:"log"`
	Metrics    MetricsConfig    `toml:"metrics" mapstructure:"metrics"`
	Keeper     KeeperConfig     `toml:"keeper" mapstructure:"keeper"`
	Cache      CacheConfig      `toml:"cache" mapstructure:"cache"`

	configPath string `toml:"-" mapstructure:"-"`
}

// DefaultConfigPath is the file LoadDefaultConfig reads.
const DefaultConfigPath = "iazod.toml"

// ConfigPathFromDir returns the configuration path inside a directory
func ConfigPathFromDir(configDir string) string {
	return filepath.Join(configDir, DefaultConfigPath)
}

// GetConfigPath returns the path to the main configuration file
func (c *Config) GetConfigPath() string {
	return c.configPath
}
