package config

import (
	"fmt"
	"time"

	"github.com/LeJamon/goIAZO/internal/core/amount"
	"github.com/LeJamon/goIAZO/internal/core/settings"
	"github.com/LeJamon/goIAZO/internal/core/types"
)

// GovernanceConfig represents the [governance] section
// Initial settings written on first start. Once stored, settings change only
// through the admin setters.
type GovernanceConfig struct {
	Admin          string `toml:"admin" mapstructure:"admin"`
	FeeAddress     string `toml:"fee_address" mapstructure:"fee_address"`
	ReserveAccount string `toml:"reserve_account" mapstructure:"reserve_account"`

	BaseFee     uint16 `toml:"base_fee" mapstructure:"base_fee"`
	MaxBaseFee  uint16 `toml:"max_base_fee" mapstructure:"max_base_fee"`
	TokenFee    uint16 `toml:"token_fee" mapstructure:"token_fee"`
	MaxTokenFee uint16 `toml:"max_token_fee" mapstructure:"max_token_fee"`

	// NativeCreationFee is a decimal count of base units.
	NativeCreationFee string `toml:"native_creation_fee" mapstructure:"native_creation_fee"`

	MinStartDelay time.Duration `toml:"min_start_delay" mapstructure:"min_start_delay"`
	MinSaleLength time.Duration `toml:"min_sale_length" mapstructure:"min_sale_length"`
	MaxSaleLength time.Duration `toml:"max_sale_length" mapstructure:"max_sale_length"`
	MinLockPeriod time.Duration `toml:"min_lock_period" mapstructure:"min_lock_period"`

	MinLiquidityPercent uint16 `toml:"min_liquidity_percent" mapstructure:"min_liquidity_percent"`
	MaxLiquidityPercent uint16 `toml:"max_liquidity_percent" mapstructure:"max_liquidity_percent"`
}

// Settings converts the section into the settings record to bootstrap.
func (g *GovernanceConfig) Settings() (settings.Settings, error) {
	admin, err := types.ParsePrincipal(g.Admin)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("admin: %w", err)
	}
	feeAddress, err := types.ParsePrincipal(g.FeeAddress)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("fee_address: %w", err)
	}
	fee, err := amount.FromDecimal(g.NativeCreationFee)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("native_creation_fee: %w", err)
	}

	return settings.Settings{
		Admin:               admin,
		FeeAddress:          feeAddress,
		BaseFee:             g.BaseFee,
		MaxBaseFee:          g.MaxBaseFee,
		TokenFee:            g.TokenFee,
		MaxTokenFee:         g.MaxTokenFee,
		NativeCreationFee:   fee,
		MinStartDelay:       g.MinStartDelay,
		MinSaleLength:       g.MinSaleLength,
		MaxSaleLength:       g.MaxSaleLength,
		MinLockPeriod:       g.MinLockPeriod,
		MinLiquidityPercent: g.MinLiquidityPercent,
		MaxLiquidityPercent: g.MaxLiquidityPercent,
	}, nil
}

// Reserve returns the configured liquidity reserve account, or the zero
// principal when unset.
func (g *GovernanceConfig) Reserve() (types.Principal, error) {
	if g.ReserveAccount == "" {
		return types.ZeroPrincipal, nil
	}
	return types.ParsePrincipal(g.ReserveAccount)
}

// Validate performs validation on the governance configuration
func (g *GovernanceConfig) Validate() error {
	s, err := g.Settings()
	if err != nil {
		return err
	}
	if _, err := g.Reserve(); err != nil {
		return fmt.Errorf("reserve_account: %w", err)
	}
	return s.Validate()
}
