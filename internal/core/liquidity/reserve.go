// Package liquidity holds the liquidity pairs of successful sales until
// their lock period ends.
package liquidity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LeJamon/goIAZO/internal/core/amount"
	"github.com/LeJamon/goIAZO/internal/core/asset"
	"github.com/LeJamon/goIAZO/internal/core/ledger/keylet"
	"github.com/LeJamon/goIAZO/internal/core/sale"
	"github.com/LeJamon/goIAZO/internal/core/types"
	"github.com/LeJamon/goIAZO/internal/core/view"
	"github.com/LeJamon/goIAZO/internal/crypto"
	"go.uber.org/zap"
)

var (
	ErrAlreadyLocked   = errors.New("liquidity already locked for sale")
	ErrLockNotFound    = errors.New("liquidity lock not found")
	ErrNotBeneficiary  = errors.New("caller is not the lock beneficiary")
	ErrStillLocked     = errors.New("liquidity is still locked")
	ErrAlreadyReleased = errors.New("liquidity already released")
)

// DefaultAccount is the principal that holds locked liquidity when no
// account is configured.
var DefaultAccount = types.Principal(crypto.CalcPrincipalID([]byte("liquidity-reserve")))

// Lock is the receipt recorded for one sale's liquidity pair.
type Lock struct {
	Sale        types.SaleID    `codec:"sale"`
	Beneficiary types.Principal `codec:"beneficiary"`
	BaseAsset   types.Asset     `codec:"base_asset"`
	OfferAsset  types.Asset     `codec:"offer_asset"`
	Base        amount.Amount   `codec:"base"`
	Offered     amount.Amount   `codec:"offered"`
	LockedAt    time.Time       `codec:"locked_at"`
	UnlockAt    time.Time       `codec:"unlock_at"`
	Released    bool            `codec:"released"`
	ReleasedAt  time.Time       `codec:"released_at"`
}

// Reserve is the liquidity reserve collaborator of the sale engine.
type Reserve struct {
	account types.Principal
	store   *view.Store
	clock   sale.Clock
	log     *zap.Logger
}

var _ sale.LiquidityReserve = (*Reserve)(nil)

func NewReserve(account types.Principal, store *view.Store, clock sale.Clock, log *zap.Logger) *Reserve {
	if account.IsZero() {
		account = DefaultAccount
	}
	return &Reserve{
		account: account,
		store:   store,
		clock:   clock,
		log:     log.Named("liquidity"),
	}
}

// Account is where sales transfer the pair before calling Lock.
func (r *Reserve) Account() types.Principal {
	return r.account
}

// Lock records a time-locked receipt for the pair already credited to the
// reserve account. It runs inside the caller's view.
func (r *Reserve) Lock(ctx context.Context, v *view.View, req sale.LockRequest) error {
	l := Lock{
		Sale:        req.Sale,
		Beneficiary: req.Beneficiary,
		BaseAsset:   req.BaseAsset,
		OfferAsset:  req.OfferAsset,
		Base:        req.Base,
		Offered:     req.Offered,
		LockedAt:    r.clock.Now(),
		UnlockAt:    req.UnlockAt,
	}
	if err := v.Insert(ctx, keylet.Lock(req.Sale), l); err != nil {
		if errors.Is(err, view.ErrEntryExists) {
			return fmt.Errorf("%w: %s", ErrAlreadyLocked, req.Sale)
		}
		return err
	}
	r.log.Info("liquidity locked",
		zap.Stringer("sale", req.Sale),
		zap.Stringer("beneficiary", req.Beneficiary),
		zap.Stringer("base", req.Base),
		zap.Stringer("offered", req.Offered),
		zap.Time("unlock_at", req.UnlockAt))
	return nil
}

func load(ctx context.Context, rd view.Reader, id types.SaleID) (Lock, error) {
	var l Lock
	found, err := rd.Read(ctx, keylet.Lock(id), &l)
	if err != nil {
		return Lock{}, err
	}
	if !found {
		return Lock{}, fmt.Errorf("%w: %s", ErrLockNotFound, id)
	}
	return l, nil
}

// Get returns the lock created by a sale.
func (r *Reserve) Get(ctx context.Context, id types.SaleID) (Lock, error) {
	var l Lock
	err := r.store.View(ctx, func(rd view.Reader) error {
		var err error
		l, err = load(ctx, rd, id)
		return err
	})
	return l, err
}

// Release pays the pair out to the beneficiary once the lock has expired.
func (r *Reserve) Release(ctx context.Context, id types.SaleID, caller types.Principal) (Lock, error) {
	var l Lock
	err := r.store.Update(ctx, func(v *view.View) error {
		var err error
		l, err = load(ctx, v, id)
		if err != nil {
			return err
		}
		now := r.clock.Now()
		switch {
		case caller != l.Beneficiary:
			return ErrNotBeneficiary
		case l.Released:
			return ErrAlreadyReleased
		case now.Before(l.UnlockAt):
			return fmt.Errorf("%w until %s", ErrStillLocked, l.UnlockAt.Format(time.RFC3339))
		}

		if err := asset.Transfer(ctx, v, l.BaseAsset, r.account, l.Beneficiary, l.Base); err != nil {
			return err
		}
		if err := asset.Transfer(ctx, v, l.OfferAsset, r.account, l.Beneficiary, l.Offered); err != nil {
			return err
		}
		l.Released = true
		l.ReleasedAt = now
		return v.Put(ctx, keylet.Lock(id), l)
	})
	if err != nil {
		r.log.Debug("release rejected", zap.Stringer("sale", id), zap.Stringer("caller", caller), zap.Error(err))
		return Lock{}, fmt.Errorf("release: %w", err)
	}
	r.log.Info("liquidity released",
		zap.Stringer("sale", id),
		zap.Stringer("beneficiary", l.Beneficiary),
		zap.Stringer("base", l.Base),
		zap.Stringer("offered", l.Offered))
	return l, nil
}
