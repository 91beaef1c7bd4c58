package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/LeJamon/goIAZO/internal/core/settings"
	"github.com/LeJamon/goIAZO/internal/storage/relationaldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAdmin = "0000000000000000000000000000000000000001"
	testFees  = "0000000000000000000000000000000000000002"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "iazod.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[database]
backend = "bbolt"
path = "/tmp/iazod/db"

[index]
driver = "sqlite"
path = "/tmp/iazod/index.sqlite"

[governance]
admin = "`+testAdmin+`"
fee_address = "0x`+testFees+`"
base_fee = 40
min_sale_length = "1h"

[keeper]
enabled = true
interval = "30s"
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Equal(t, BackendBbolt, config.Database.Backend)
	assert.Equal(t, "/tmp/iazod/db", config.Database.Path)
	assert.Equal(t, "iazo", config.Database.Name)
	assert.True(t, config.Index.Enabled())
	assert.Equal(t, relationaldb.DriverSQLite, config.Index.Relational().Driver)
	assert.Equal(t, "/tmp/iazod/index.sqlite", config.Index.Relational().Database)
	assert.True(t, config.Keeper.Enabled)
	assert.Equal(t, 30*time.Second, config.Keeper.Interval)
	assert.Equal(t, path, config.GetConfigPath())

	s, err := config.Governance.Settings()
	require.NoError(t, err)
	assert.Equal(t, testAdmin, s.Admin.String())
	assert.Equal(t, testFees, s.FeeAddress.String())
	assert.Equal(t, uint16(40), s.BaseFee)
	assert.Equal(t, settings.DefaultTokenFee, s.TokenFee)
	assert.Equal(t, time.Hour, s.MinSaleLength)
	assert.Equal(t, settings.DefaultMaxSaleLength, s.MaxSaleLength)
	assert.True(t, settings.DefaultNativeCreationFee.Equal(s.NativeCreationFee))

	reserve, err := config.Governance.Reserve()
	require.NoError(t, err)
	assert.True(t, reserve.IsZero())
}

func TestEnvironmentOverride(t *testing.T) {
	path := writeConfig(t, `
[governance]
admin = "`+testAdmin+`"
fee_address = "`+testFees+`"
`)
	t.Setenv("IAZOD_DATABASE_BACKEND", "memory")
	t.Setenv("IAZOD_LOG_LEVEL", "debug")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, config.Database.Backend)
	assert.Equal(t, "debug", config.Log.Level)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfigRequiresGovernance(t *testing.T) {
	path := writeConfig(t, `
[database]
backend = "memory"
`)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigValidation(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Backend: BackendMemory, Name: "iazo"},
			Governance: GovernanceConfig{
				Admin:               testAdmin,
				FeeAddress:          testFees,
				BaseFee:             50,
				MaxBaseFee:          300,
				TokenFee:            50,
				MaxTokenFee:         300,
				NativeCreationFee:   "1",
				MinSaleLength:       time.Hour,
				MaxSaleLength:       2 * time.Hour,
				MinLiquidityPercent: 300,
				MaxLiquidityPercent: 1000,
			},
			Log:     LogConfig{Level: "info", Format: "json"},
			Metrics: MetricsConfig{Enabled: true, Address: "127.0.0.1:9090", Path: "/metrics"},
		}
	}
	require.NoError(t, ValidateConfig(valid()))

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown backend", func(c *Config) { c.Database.Backend = "nudb" }},
		{"disk backend without path", func(c *Config) { c.Database.Backend = BackendPebble }},
		{"unknown index driver", func(c *Config) { c.Index.Driver = "mysql" }},
		{"bad admin", func(c *Config) { c.Governance.Admin = "zz" }},
		{"zero fee address", func(c *Config) { c.Governance.FeeAddress = "0000000000000000000000000000000000000000" }},
		{"fee above max", func(c *Config) { c.Governance.BaseFee = 400 }},
		{"bad creation fee", func(c *Config) { c.Governance.NativeCreationFee = "1.5" }},
		{"bad reserve account", func(c *Config) { c.Governance.ReserveAccount = "abc" }},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }},
		{"bad metrics address", func(c *Config) { c.Metrics.Address = "nowhere" }},
		{"keeper without interval", func(c *Config) { c.Keeper.Enabled = true }},
		{"negative cache", func(c *Config) { c.Cache.SaleInfoSize = -1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(c)
			assert.Error(t, ValidateConfig(c))
		})
	}
}

func TestSaveExampleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iazod.toml")
	require.NoError(t, SaveExampleConfig(path))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, BackendPebble, config.Database.Backend)
	assert.True(t, config.Keeper.Enabled)
	assert.Equal(t, time.Minute, config.Keeper.Interval)
}
