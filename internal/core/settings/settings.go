// Package settings stores the governance parameters every sale is validated
// against. Sales copy a Snapshot at creation; only the fee address is read
// live.
package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LeJamon/goIAZO/internal/core/amount"
	"github.com/LeJamon/goIAZO/internal/core/ledger/keylet"
	"github.com/LeJamon/goIAZO/internal/core/types"
	"github.com/LeJamon/goIAZO/internal/core/view"
)

var (
	// ErrNotAdmin is returned when a setter is called by anyone but the admin.
	ErrNotAdmin = errors.New("caller is not the admin")

	// ErrOutOfRange is returned when a setter would break a settings bound.
	ErrOutOfRange = errors.New("setting out of range")

	// ErrNotInitialized is returned before Bootstrap has run.
	ErrNotInitialized = errors.New("settings not initialized")
)

// Default governance values.
const (
	DefaultBaseFee             uint16 = 50
	DefaultMaxBaseFee          uint16 = 300
	DefaultTokenFee            uint16 = 50
	DefaultMaxTokenFee         uint16 = 300
	DefaultMinLiquidityPercent uint16 = 300
	DefaultMaxLiquidityPercent uint16 = 1000

	DefaultMinSaleLength = 43200 * time.Second
	DefaultMaxSaleLength = 1814000 * time.Second
	DefaultMinLockPeriod = 2419000 * time.Second
	DefaultMinStartDelay = 7 * 24 * time.Hour
)

// DefaultNativeCreationFee is 10 native units at 18 decimals.
var DefaultNativeCreationFee = amount.MustFromDecimal("10000000000000000000")

// Settings is the persisted governance record.
type Settings struct {
	Admin      types.Principal `codec:"admin"`
	FeeAddress types.Principal `codec:"fee_address"`

	// Rates are per mille.
	BaseFee     uint16 `codec:"base_fee"`
	MaxBaseFee  uint16 `codec:"max_base_fee"`
	TokenFee    uint16 `codec:"token_fee"`
	MaxTokenFee uint16 `codec:"max_token_fee"`

	NativeCreationFee amount.Amount `codec:"native_creation_fee"`

	MinStartDelay time.Duration `codec:"min_start_delay"`
	MinSaleLength time.Duration `codec:"min_sale_length"`
	MaxSaleLength time.Duration `codec:"max_sale_length"`
	MinLockPeriod time.Duration `codec:"min_lock_period"`

	MinLiquidityPercent uint16 `codec:"min_liquidity_percent"`
	MaxLiquidityPercent uint16 `codec:"max_liquidity_percent"`
}

// Defaults returns the stock settings for the given admin and fee address.
func Defaults(admin, feeAddress types.Principal) Settings {
	return Settings{
		Admin:               admin,
		FeeAddress:          feeAddress,
		BaseFee:             DefaultBaseFee,
		MaxBaseFee:          DefaultMaxBaseFee,
		TokenFee:            DefaultTokenFee,
		MaxTokenFee:         DefaultMaxTokenFee,
		NativeCreationFee:   DefaultNativeCreationFee,
		MinStartDelay:       DefaultMinStartDelay,
		MinSaleLength:       DefaultMinSaleLength,
		MaxSaleLength:       DefaultMaxSaleLength,
		MinLockPeriod:       DefaultMinLockPeriod,
		MinLiquidityPercent: DefaultMinLiquidityPercent,
		MaxLiquidityPercent: DefaultMaxLiquidityPercent,
	}
}

// Validate checks the cross-field bounds.
func (s Settings) Validate() error {
	switch {
	case s.Admin.IsZero():
		return fmt.Errorf("%w: admin must be set", ErrOutOfRange)
	case s.FeeAddress.IsZero():
		return fmt.Errorf("%w: fee address must be set", ErrOutOfRange)
	case s.MaxBaseFee > amount.PerMilleDenominator:
		return fmt.Errorf("%w: max base fee %d exceeds %d", ErrOutOfRange, s.MaxBaseFee, amount.PerMilleDenominator)
	case s.BaseFee > s.MaxBaseFee:
		return fmt.Errorf("%w: base fee %d exceeds max %d", ErrOutOfRange, s.BaseFee, s.MaxBaseFee)
	case s.MaxTokenFee > amount.PerMilleDenominator:
		return fmt.Errorf("%w: max token fee %d exceeds %d", ErrOutOfRange, s.MaxTokenFee, amount.PerMilleDenominator)
	case s.TokenFee > s.MaxTokenFee:
		return fmt.Errorf("%w: token fee %d exceeds max %d", ErrOutOfRange, s.TokenFee, s.MaxTokenFee)
	case s.MinStartDelay < 0:
		return fmt.Errorf("%w: negative start delay", ErrOutOfRange)
	case s.MinSaleLength <= 0 || s.MinSaleLength > s.MaxSaleLength:
		return fmt.Errorf("%w: sale length bounds [%s, %s]", ErrOutOfRange, s.MinSaleLength, s.MaxSaleLength)
	case s.MinLockPeriod < 0:
		return fmt.Errorf("%w: negative lock period", ErrOutOfRange)
	case s.MaxLiquidityPercent > amount.PerMilleDenominator:
		return fmt.Errorf("%w: max liquidity percent %d exceeds %d", ErrOutOfRange, s.MaxLiquidityPercent, amount.PerMilleDenominator)
	case s.MinLiquidityPercent > s.MaxLiquidityPercent:
		return fmt.Errorf("%w: liquidity percent bounds [%d, %d]", ErrOutOfRange, s.MinLiquidityPercent, s.MaxLiquidityPercent)
	}
	return nil
}

// Snapshot is the subset of settings a sale copies at creation.
type Snapshot struct {
	Admin               types.Principal `codec:"admin"`
	BaseFee             uint16          `codec:"base_fee"`
	TokenFee            uint16          `codec:"token_fee"`
	NativeCreationFee   amount.Amount   `codec:"native_creation_fee"`
	MinStartDelay       time.Duration   `codec:"min_start_delay"`
	MinSaleLength       time.Duration   `codec:"min_sale_length"`
	MaxSaleLength       time.Duration   `codec:"max_sale_length"`
	MinLockPeriod       time.Duration   `codec:"min_lock_period"`
	MinLiquidityPercent uint16          `codec:"min_liquidity_percent"`
	MaxLiquidityPercent uint16          `codec:"max_liquidity_percent"`
}

// Snapshot copies the values a sale depends on for its whole life.
func (s Settings) Snapshot() Snapshot {
	return Snapshot{
		Admin:               s.Admin,
		BaseFee:             s.BaseFee,
		TokenFee:            s.TokenFee,
		NativeCreationFee:   s.NativeCreationFee,
		MinStartDelay:       s.MinStartDelay,
		MinSaleLength:       s.MinSaleLength,
		MaxSaleLength:       s.MaxSaleLength,
		MinLockPeriod:       s.MinLockPeriod,
		MinLiquidityPercent: s.MinLiquidityPercent,
		MaxLiquidityPercent: s.MaxLiquidityPercent,
	}
}

// Load reads the settings record.
func Load(ctx context.Context, r view.Reader) (Settings, error) {
	var s Settings
	found, err := r.Read(ctx, keylet.Settings(), &s)
	if err != nil {
		return Settings{}, err
	}
	if !found {
		return Settings{}, ErrNotInitialized
	}
	return s, nil
}

// FeeAddress returns the current fee receiver. Settlement reads it at
// transfer time rather than from the creation snapshot.
func FeeAddress(ctx context.Context, r view.Reader) (types.Principal, error) {
	s, err := Load(ctx, r)
	if err != nil {
		return types.Principal{}, err
	}
	return s.FeeAddress, nil
}

// Bootstrap writes s if no settings exist yet. It reports whether it wrote.
func Bootstrap(ctx context.Context, v *view.View, s Settings) (bool, error) {
	if err := s.Validate(); err != nil {
		return false, err
	}
	exists, err := v.Exists(ctx, keylet.Settings())
	if err != nil || exists {
		return false, err
	}
	if err := v.Put(ctx, keylet.Settings(), s); err != nil {
		return false, err
	}
	return true, nil
}
