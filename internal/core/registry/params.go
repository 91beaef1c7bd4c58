package registry

import (
	"fmt"
	"time"

	"github.com/LeJamon/goIAZO/internal/core/amount"
	"github.com/LeJamon/goIAZO/internal/core/settings"
	"github.com/LeJamon/goIAZO/internal/core/types"
)

// MinDivisibility is the smallest offered amount, in base units, a sale
// may be created with.
const MinDivisibility = 1000

// CreateParams are the seller-chosen parameters of a new sale.
type CreateParams struct {
	Seller     types.Principal
	OfferAsset types.Asset
	BaseAsset  types.Asset

	TokenPrice       amount.Amount
	Amount           amount.Amount
	SoftCap          amount.Amount
	MaxSpendPerBuyer amount.Amount
	LiquidityPercent uint16
	// ListingPrice defaults to TokenPrice when zero.
	ListingPrice amount.Amount

	StartTime      time.Time
	ActiveDuration time.Duration
	LockPeriod     time.Duration
	BurnRemains    bool
}

func outOfBounds(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrParameterOutOfBounds, field, fmt.Sprintf(format, args...))
}

// validate checks the parameters that do not depend on stored state other
// than the settings snapshot.
func (p CreateParams) validate(now time.Time, snap settings.Snapshot) error {
	if p.Seller.IsZero() {
		return outOfBounds("seller", "must be set")
	}
	if err := p.OfferAsset.Validate(); err != nil {
		return outOfBounds("offer asset", "%v", err)
	}
	if err := p.BaseAsset.Validate(); err != nil {
		return outOfBounds("base asset", "%v", err)
	}
	if p.OfferAsset == p.BaseAsset {
		return outOfBounds("offer asset", "must differ from base asset %s", p.BaseAsset)
	}
	if p.TokenPrice.IsZero() {
		return outOfBounds("token price", "must be positive")
	}
	if p.Amount.LessThan(amount.New(MinDivisibility)) {
		return outOfBounds("amount", "%s below minimum %d", p.Amount, MinDivisibility)
	}
	if p.MaxSpendPerBuyer.IsZero() {
		return outOfBounds("max spend per buyer", "must be positive")
	}
	if earliest := now.Add(snap.MinStartDelay); p.StartTime.Before(earliest) {
		return outOfBounds("start time", "%s before earliest %s", p.StartTime.Format(time.RFC3339), earliest.Format(time.RFC3339))
	}
	if p.ActiveDuration < snap.MinSaleLength || p.ActiveDuration > snap.MaxSaleLength {
		return outOfBounds("active duration", "%s outside [%s, %s]", p.ActiveDuration, snap.MinSaleLength, snap.MaxSaleLength)
	}
	if p.LockPeriod < snap.MinLockPeriod {
		return outOfBounds("lock period", "%s below minimum %s", p.LockPeriod, snap.MinLockPeriod)
	}
	if p.LiquidityPercent < snap.MinLiquidityPercent || p.LiquidityPercent > snap.MaxLiquidityPercent {
		return outOfBounds("liquidity percent", "%d outside [%d, %d]", p.LiquidityPercent, snap.MinLiquidityPercent, snap.MaxLiquidityPercent)
	}
	if uint32(p.LiquidityPercent)+uint32(snap.BaseFee) > amount.PerMilleDenominator {
		return outOfBounds("liquidity percent", "%d plus base fee %d exceeds %d", p.LiquidityPercent, snap.BaseFee, amount.PerMilleDenominator)
	}
	return nil
}
