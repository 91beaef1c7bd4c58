package config

import (
	"fmt"
	"net"
	"time"
)

// LogConfig represents the [log] section
type LogConfig struct {
	Level string `toml:"level" mapstructure:"level"`
	// Format is json or console.
	Format string `toml:"format" mapstructure:"format"`
}

// MetricsConfig represents the [metrics] section
// Serves Prometheus metrics and a health check over HTTP
type MetricsConfig struct {
	Enabled bool   `toml:"enabled" mapstructure:"enabled"`
	Address string `toml:"address" mapstructure:"address"`
	Path    string `toml:"path" mapstructure:"path"`
}

// KeeperConfig represents the [keeper] section
// The keeper periodically finalizes sales that resolved to success
type KeeperConfig struct {
	Enabled  bool          `toml:"enabled" mapstructure:"enabled"`
	Interval time.Duration `toml:"interval" mapstructure:"interval"`
}

// CacheConfig represents the [cache] section
type CacheConfig struct {
	SaleInfoSize       int `toml:"sale_info_size" mapstructure:"sale_info_size"`
	SummaryConcurrency int `toml:"summary_concurrency" mapstructure:"summary_concurrency"`
}

// Validate performs validation on the log configuration
func (l *LogConfig) Validate() error {
	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (valid options: debug, info, warn, error)", l.Level)
	}
	switch l.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s (valid options: json, console)", l.Format)
	}
	return nil
}

// Validate performs validation on the metrics configuration
func (m *MetricsConfig) Validate() error {
	if !m.Enabled {
		return nil
	}
	if !isValidAddressPort(m.Address) {
		return fmt.Errorf("invalid address format: %s (expected format: host:port)", m.Address)
	}
	if m.Path == "" || m.Path[0] != '/' {
		return fmt.Errorf("metrics path must start with /, got %q", m.Path)
	}
	return nil
}

// Validate performs validation on the keeper configuration
func (k *KeeperConfig) Validate() error {
	if k.Enabled && k.Interval <= 0 {
		return fmt.Errorf("keeper interval must be positive, got %s", k.Interval)
	}
	return nil
}

// Validate performs validation on the cache configuration
func (c *CacheConfig) Validate() error {
	if c.SaleInfoSize < 0 {
		return fmt.Errorf("sale_info_size must be non-negative, got %d", c.SaleInfoSize)
	}
	if c.SummaryConcurrency < 0 {
		return fmt.Errorf("summary_concurrency must be non-negative, got %d", c.SummaryConcurrency)
	}
	return nil
}

func isValidAddressPort(addr string) bool {
	_, port, err := net.SplitHostPort(addr)
	return err == nil && port != ""
}
