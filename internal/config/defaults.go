package config

import (
	"time"

	"github.com/LeJamon/goIAZO/internal/core/settings"
	"github.com/spf13/viper"
)

// setDefaults sets every default value
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.backend", BackendPebble)
	v.SetDefault("database.path", "/var/lib/iazod/db")
	v.SetDefault("database.name", "iazo")

	// Index defaults (disabled)
	v.SetDefault("index.driver", "")
	v.SetDefault("index.path", "/var/lib/iazod/index.sqlite")
	v.SetDefault("index.timeout", 30*time.Second)

	// Governance defaults
	v.SetDefault("governance.base_fee", settings.DefaultBaseFee)
	v.SetDefault("governance.max_base_fee", settings.DefaultMaxBaseFee)
	v.SetDefault("governance.token_fee", settings.DefaultTokenFee)
	v.SetDefault("governance.max_token_fee", settings.DefaultMaxTokenFee)
	v.SetDefault("governance.native_creation_fee", settings.DefaultNativeCreationFee.String())
	v.SetDefault("governance.min_start_delay", settings.DefaultMinStartDelay)
	v.SetDefault("governance.min_sale_length", settings.DefaultMinSaleLength)
	v.SetDefault("governance.max_sale_length", settings.DefaultMaxSaleLength)
	v.SetDefault("governance.min_lock_period", settings.DefaultMinLockPeriod)
	v.SetDefault("governance.min_liquidity_percent", settings.DefaultMinLiquidityPercent)
	v.SetDefault("governance.max_liquidity_percent", settings.DefaultMaxLiquidityPercent)

	// Diagnostics defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.address", "127.0.0.1:9090")
	v.SetDefault("metrics.path", "/metrics")

	// Keeper defaults
	v.SetDefault("keeper.enabled", false)
	v.SetDefault("keeper.interval", time.Minute)

	// Cache defaults
	v.SetDefault("cache.sale_info_size", 1024)
	v.SetDefault("cache.summary_concurrency", 8)
}
