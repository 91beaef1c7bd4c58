package testing

import (
	"time"

	"github.com/LeJamon/goIAZO/internal/core/amount"
	"github.com/LeJamon/goIAZO/internal/core/registry"
	"github.com/LeJamon/goIAZO/internal/core/settings"
	"github.com/LeJamon/goIAZO/internal/core/types"
)

// ParamsBuilder builds registry.CreateParams fluently.
type ParamsBuilder struct {
	p registry.CreateParams
}

// Params starts from the reference sale: price 0.1, 21 offered, soft cap
// 0.2, listing at 0.2, 30% liquidity, starting one hour after the earliest
// allowed start and running for one day.
func Params(env *Env, seller *Account) *ParamsBuilder {
	return &ParamsBuilder{p: registry.CreateParams{
		Seller:           seller.ID,
		OfferAsset:       OfferAsset,
		BaseAsset:        types.NativeAsset,
		TokenPrice:       Units("0.1"),
		Amount:           Units("21"),
		SoftCap:          Units("0.2"),
		MaxSpendPerBuyer: Units("10"),
		LiquidityPercent: 300,
		ListingPrice:     Units("0.2"),
		StartTime:        env.Now().Add(settings.DefaultMinStartDelay + time.Hour),
		ActiveDuration:   24 * time.Hour,
		LockPeriod:       settings.DefaultMinLockPeriod,
	}}
}

func (b *ParamsBuilder) Offer(a types.Asset) *ParamsBuilder {
	b.p.OfferAsset = a
	return b
}

func (b *ParamsBuilder) Base(a types.Asset) *ParamsBuilder {
	b.p.BaseAsset = a
	return b
}

func (b *ParamsBuilder) Price(v amount.Amount) *ParamsBuilder {
	b.p.TokenPrice = v
	return b
}

func (b *ParamsBuilder) Amount(v amount.Amount) *ParamsBuilder {
	b.p.Amount = v
	return b
}

func (b *ParamsBuilder) SoftCap(v amount.Amount) *ParamsBuilder {
	b.p.SoftCap = v
	return b
}

func (b *ParamsBuilder) MaxSpend(v amount.Amount) *ParamsBuilder {
	b.p.MaxSpendPerBuyer = v
	return b
}

func (b *ParamsBuilder) Liquidity(perMille uint16) *ParamsBuilder {
	b.p.LiquidityPercent = perMille
	return b
}

// Listing sets the listing price; zero means the token price.
func (b *ParamsBuilder) Listing(v amount.Amount) *ParamsBuilder {
	b.p.ListingPrice = v
	return b
}

func (b *ParamsBuilder) Start(t time.Time) *ParamsBuilder {
	b.p.StartTime = t
	return b
}

func (b *ParamsBuilder) Duration(d time.Duration) *ParamsBuilder {
	b.p.ActiveDuration = d
	return b
}

func (b *ParamsBuilder) Lock(d time.Duration) *ParamsBuilder {
	b.p.LockPeriod = d
	return b
}

// Burn sets BurnRemains.
func (b *ParamsBuilder) Burn() *ParamsBuilder {
	b.p.BurnRemains = true
	return b
}

func (b *ParamsBuilder) Build() registry.CreateParams {
	return b.p
}
