package config

import "fmt"

// ValidateConfig performs validation on the complete configuration
func ValidateConfig(config *Config) error {
	if err := config.Database.Validate(); err != nil {
		return fmt.Errorf("database validation failed: %w", err)
	}
	if err := config.Index.Validate(); err != nil {
		return fmt.Errorf("index validation failed: %w", err)
	}
	if err := config.Governance.Validate(); err != nil {
		return fmt.Errorf("governance validation failed: %w", err)
	}
	if err := config.Log.Validate(); err != nil {
		return fmt.Errorf("log validation failed: %w", err)
	}
	if err := config.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics validation failed: %w", err)
	}
	if err := config.Keeper.Validate(); err != nil {
		return fmt.Errorf("keeper validation failed: %w", err)
	}
	if err := config.Cache.Validate(); err != nil {
		return fmt.Errorf("cache validation failed: %w", err)
	}
	return nil
}
