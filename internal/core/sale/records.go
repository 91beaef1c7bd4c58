package sale

import (
	"context"
	"fmt"
	"time"

	"github.com/LeJamon/goIAZO/internal/core/amount"
	"github.com/LeJamon/goIAZO/internal/core/ledger/keylet"
	"github.com/LeJamon/goIAZO/internal/core/settings"
	"github.com/LeJamon/goIAZO/internal/core/types"
	"github.com/LeJamon/goIAZO/internal/core/view"
)

// Info is the immutable description of a sale, fixed at creation.
type Info struct {
	ID      types.SaleID    `codec:"id"`
	Index   uint64          `codec:"index"`
	Creator types.Principal `codec:"creator"`
	Seller  types.Principal `codec:"seller"`
	// Account is the escrow principal holding the sale's funds.
	Account types.Principal `codec:"account"`

	OfferAsset    types.Asset `codec:"offer_asset"`
	OfferDecimals uint8       `codec:"offer_decimals"`
	BaseAsset     types.Asset `codec:"base_asset"`

	TokenPrice       amount.Amount `codec:"token_price"`
	Amount           amount.Amount `codec:"amount"`
	HardCap          amount.Amount `codec:"hard_cap"`
	SoftCap          amount.Amount `codec:"soft_cap"`
	MaxSpendPerBuyer amount.Amount `codec:"max_spend_per_buyer"`
	LiquidityPercent uint16        `codec:"liquidity_percent"`
	ListingPrice     amount.Amount `codec:"listing_price"`
	TokensRequired   amount.Amount `codec:"tokens_required"`

	StartTime      time.Time     `codec:"start_time"`
	ActiveDuration time.Duration `codec:"active_duration"`
	LockPeriod     time.Duration `codec:"lock_period"`
	BurnRemains    bool          `codec:"burn_remains"`
	CreatedAt      time.Time     `codec:"created_at"`

	Settings settings.Snapshot `codec:"settings"`
}

// EndTime is the end of the active window.
func (i Info) EndTime() time.Time {
	return i.StartTime.Add(i.ActiveDuration)
}

// Status holds the mutable counters of a sale.
type Status struct {
	TotalRaised          amount.Amount `codec:"total_raised"`
	TotalTokensSold      amount.Amount `codec:"total_tokens_sold"`
	TotalTokensWithdrawn amount.Amount `codec:"total_tokens_withdrawn"`
	TotalBaseWithdrawn   amount.Amount `codec:"total_base_withdrawn"`
	NumBuyers            uint64        `codec:"num_buyers"`
	LPGenerationComplete bool          `codec:"lp_generation_complete"`
	ForceFailed          bool          `codec:"force_failed"`
}

// Buyer is one participant's position. Records are never removed.
type Buyer struct {
	Deposited    amount.Amount `codec:"deposited"`
	TokensBought amount.Amount `codec:"tokens_bought"`
}

// Settlement records the outcome of a successful finalization.
type Settlement struct {
	FeeAddress       types.Principal `codec:"fee_address"`
	BaseFee          amount.Amount   `codec:"base_fee"`
	TokenFee         amount.Amount   `codec:"token_fee"`
	LiquidityBase    amount.Amount   `codec:"liquidity_base"`
	LiquidityOffered amount.Amount   `codec:"liquidity_offered"`
	SellerBase       amount.Amount   `codec:"seller_base"`
	SellerOffered    amount.Amount   `codec:"seller_offered"`
	Burned           bool            `codec:"burned"`
	UnlockAt         time.Time       `codec:"unlock_at"`
	FinalizedAt      time.Time       `codec:"finalized_at"`
}

// Create stores the records of a new sale. The caller is responsible for
// moving the escrowed offered asset into info.Account in the same view.
func Create(ctx context.Context, v *view.View, info Info) error {
	if err := v.Insert(ctx, keylet.Sale(info.ID), info); err != nil {
		return fmt.Errorf("create sale %s: %w", info.ID, err)
	}
	return v.Insert(ctx, keylet.Status(info.ID), Status{})
}

// LoadInfo reads a sale's immutable info.
func LoadInfo(ctx context.Context, r view.Reader, id types.SaleID) (Info, error) {
	var info Info
	found, err := r.Read(ctx, keylet.Sale(id), &info)
	if err != nil {
		return Info{}, err
	}
	if !found {
		return Info{}, fmt.Errorf("%w: %s", ErrSaleNotFound, id)
	}
	return info, nil
}

// LoadStatus reads a sale's counters.
func LoadStatus(ctx context.Context, r view.Reader, id types.SaleID) (Status, error) {
	var status Status
	found, err := r.Read(ctx, keylet.Status(id), &status)
	if err != nil {
		return Status{}, err
	}
	if !found {
		return Status{}, fmt.Errorf("%w: %s", ErrSaleNotFound, id)
	}
	return status, nil
}

// LoadBuyer reads a buyer record, reporting whether it exists.
func LoadBuyer(ctx context.Context, r view.Reader, id types.SaleID, buyer types.Principal) (Buyer, bool, error) {
	var rec Buyer
	found, err := r.Read(ctx, keylet.Buyer(id, buyer), &rec)
	return rec, found, err
}

// LoadSettlement reads the finalization outcome, if any.
func LoadSettlement(ctx context.Context, r view.Reader, id types.SaleID) (Settlement, bool, error) {
	var s Settlement
	found, err := r.Read(ctx, keylet.Settlement(id), &s)
	return s, found, err
}
