package sale

import (
	"context"
	"time"

	"github.com/LeJamon/goIAZO/internal/core/amount"
	"github.com/LeJamon/goIAZO/internal/core/types"
	"github.com/LeJamon/goIAZO/internal/core/view"
)

//go:generate mockgen -destination=mocks/reserve_mock.go -package=mocks github.com/LeJamon/goIAZO/internal/core/sale LiquidityReserve

// LockRequest describes the liquidity pair handed to the reserve.
type LockRequest struct {
	Sale        types.SaleID
	Beneficiary types.Principal
	BaseAsset   types.Asset
	OfferAsset  types.Asset
	Base        amount.Amount
	Offered     amount.Amount
	UnlockAt    time.Time
}

// LiquidityReserve time-locks the liquidity pair of a successful sale.
// Lock runs inside the finalizing operation's view after the pair has been
// transferred to Account, so both commit or neither does.
type LiquidityReserve interface {
	Account() types.Principal
	Lock(ctx context.Context, v *view.View, req LockRequest) error
}
