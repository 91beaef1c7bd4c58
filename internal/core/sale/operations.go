package sale

import (
	"context"
	"fmt"

	"github.com/LeJamon/goIAZO/internal/core/amount"
	"github.com/LeJamon/goIAZO/internal/core/asset"
	"github.com/LeJamon/goIAZO/internal/core/ledger/keylet"
	"github.com/LeJamon/goIAZO/internal/core/settings"
	"github.com/LeJamon/goIAZO/internal/core/types"
	"github.com/LeJamon/goIAZO/internal/core/view"
	"go.uber.org/zap"
)

// DepositReceipt reports how much of a deposit was taken.
type DepositReceipt struct {
	Accepted amount.Amount
	// Refunded is the part of the requested amount that never left the
	// buyer because a cap bound.
	Refunded amount.Amount
	// TokensBought is the buyer's cumulative allocation after the deposit.
	TokensBought amount.Amount
}

// Deposit contributes up to amt of the base asset from buyer. The accepted
// part is capped by the buyer's remaining allowance and the remaining
// hardcap; only that part is debited.
func (e *Engine) Deposit(ctx context.Context, id types.SaleID, buyer types.Principal, amt amount.Amount) (DepositReceipt, error) {
	var receipt DepositReceipt
	err := e.update(ctx, id, func(v *view.View, info Info, status *Status) error {
		if Evaluate(e.clock.Now(), info, *status) != StateActive {
			return ErrNotActive
		}

		rec, existed, err := LoadBuyer(ctx, v, id, buyer)
		if err != nil {
			return err
		}

		buyerRemaining := info.MaxSpendPerBuyer.SaturatingSub(rec.Deposited)
		capRemaining := info.HardCap.SaturatingSub(status.TotalRaised)
		accepted := amount.Min(amt, buyerRemaining, capRemaining)
		if accepted.IsZero() {
			return ErrDepositRejected
		}

		if err := asset.Transfer(ctx, v, info.BaseAsset, buyer, info.Account, accepted); err != nil {
			return err
		}

		deposited, err := rec.Deposited.Add(accepted)
		if err != nil {
			return err
		}
		bought, err := TokensForBase(deposited, info.TokenPrice, info.OfferDecimals)
		if err != nil {
			return err
		}
		sold, err := status.TotalTokensSold.Add(bought.SaturatingSub(rec.TokensBought))
		if err != nil {
			return err
		}
		raised, err := status.TotalRaised.Add(accepted)
		if err != nil {
			return err
		}

		rec.Deposited = deposited
		rec.TokensBought = bought
		status.TotalTokensSold = sold
		status.TotalRaised = raised
		if !existed {
			status.NumBuyers++
		}

		receipt = DepositReceipt{
			Accepted:     accepted,
			Refunded:     amt.SaturatingSub(accepted),
			TokensBought: bought,
		}
		return v.Put(ctx, keylet.Buyer(id, buyer), rec)
	})
	if err != nil {
		e.metrics.depositRejected.Inc()
		e.log.Debug("deposit rejected",
			zap.Stringer("sale", id),
			zap.Stringer("buyer", buyer),
			amountField("amount", amt),
			zap.Error(err))
		return DepositReceipt{}, fmt.Errorf("deposit: %w", err)
	}

	e.metrics.deposit.Inc()
	e.log.Info("deposit accepted",
		zap.Stringer("sale", id),
		zap.Stringer("buyer", buyer),
		amountField("accepted", receipt.Accepted),
		amountField("refunded", receipt.Refunded),
		amountField("tokens_bought", receipt.TokensBought))
	return receipt, nil
}

// WithdrawReceipt reports what a withdrawal paid out.
type WithdrawReceipt struct {
	Asset  types.Asset
	Amount amount.Amount
}

// Withdraw pays a buyer out of a resolved sale: the bought offered asset on
// success, the deposited base asset on failure. A successful sale is
// finalized first, in the same atomic unit. Repeated calls pay zero.
func (e *Engine) Withdraw(ctx context.Context, id types.SaleID, buyer types.Principal) (WithdrawReceipt, error) {
	var (
		receipt   WithdrawReceipt
		info      Info
		finalized bool
	)
	err := e.update(ctx, id, func(v *view.View, loaded Info, status *Status) error {
		info = loaded
		state := Evaluate(e.clock.Now(), info, *status)
		if !state.Terminal() {
			return ErrNotWithdrawable
		}

		rec, existed, err := LoadBuyer(ctx, v, id, buyer)
		if err != nil {
			return err
		}

		if state == StateSuccess {
			if !status.LPGenerationComplete {
				if _, err := e.settle(ctx, v, info, status); err != nil {
					return err
				}
				finalized = true
			}
			receipt = WithdrawReceipt{Asset: info.OfferAsset, Amount: rec.TokensBought}
			if err := asset.Transfer(ctx, v, info.OfferAsset, info.Account, buyer, rec.TokensBought); err != nil {
				return err
			}
			status.TotalTokensWithdrawn = status.TotalTokensWithdrawn.SaturatingAdd(rec.TokensBought)
			rec.TokensBought = amount.Zero()
		} else {
			receipt = WithdrawReceipt{Asset: info.BaseAsset, Amount: rec.Deposited}
			if err := asset.Transfer(ctx, v, info.BaseAsset, info.Account, buyer, rec.Deposited); err != nil {
				return err
			}
			status.TotalBaseWithdrawn = status.TotalBaseWithdrawn.SaturatingAdd(rec.Deposited)
			rec.Deposited = amount.Zero()
			rec.TokensBought = amount.Zero()
		}

		if !existed {
			return nil
		}
		return v.Put(ctx, keylet.Buyer(id, buyer), rec)
	})
	if err != nil {
		e.log.Debug("withdraw rejected", zap.Stringer("sale", id), zap.Stringer("buyer", buyer), zap.Error(err))
		return WithdrawReceipt{}, fmt.Errorf("withdraw: %w", err)
	}

	if finalized {
		e.metrics.finalize.Inc()
	}
	if !receipt.Amount.IsZero() {
		if receipt.Asset == info.OfferAsset {
			e.metrics.withdrawOffered.Inc()
		} else {
			e.metrics.withdrawBase.Inc()
		}
	}
	e.log.Info("withdraw",
		zap.Stringer("sale", id),
		zap.Stringer("buyer", buyer),
		zap.Stringer("asset", receipt.Asset),
		amountField("amount", receipt.Amount),
		zap.Bool("finalized", finalized))
	return receipt, nil
}

// Finalize settles a successful sale once: fees to the fee address, the
// liquidity pair to the reserve, the remainder to the seller. Calling it
// again returns the stored settlement. A failed sale is a no-op and
// returns the zero settlement.
func (e *Engine) Finalize(ctx context.Context, id types.SaleID) (Settlement, error) {
	var (
		out     Settlement
		settled bool
	)
	err := e.update(ctx, id, func(v *view.View, info Info, status *Status) error {
		switch Evaluate(e.clock.Now(), info, *status) {
		case StateQueued, StateActive:
			return ErrWrongState
		case StateFailed:
			return nil
		}

		if status.LPGenerationComplete {
			stored, _, err := LoadSettlement(ctx, v, id)
			out = stored
			return err
		}

		s, err := e.settle(ctx, v, info, status)
		if err != nil {
			return err
		}
		out = s
		settled = true
		return nil
	})
	if err != nil {
		e.log.Debug("finalize rejected", zap.Stringer("sale", id), zap.Error(err))
		return Settlement{}, fmt.Errorf("finalize: %w", err)
	}
	if settled {
		e.metrics.finalize.Inc()
	}
	return out, nil
}

// settle performs the finalization transfers inside v and marks the sale
// complete.
func (e *Engine) settle(ctx context.Context, v *view.View, info Info, status *Status) (Settlement, error) {
	now := e.clock.Now()

	feeAddress, err := settings.FeeAddress(ctx, v)
	if err != nil {
		return Settlement{}, err
	}

	tokenFee, err := info.Amount.PerMille(info.Settings.TokenFee)
	if err != nil {
		return Settlement{}, err
	}
	baseFee, err := status.TotalRaised.PerMille(info.Settings.BaseFee)
	if err != nil {
		return Settlement{}, err
	}
	liquidityBase, err := status.TotalRaised.PerMille(info.LiquidityPercent)
	if err != nil {
		return Settlement{}, err
	}
	liquidityOffered, err := LiquidityOffered(liquidityBase, info.ListingPrice, info.OfferDecimals)
	if err != nil {
		return Settlement{}, err
	}

	sellerBase, err := status.TotalRaised.Sub(baseFee)
	if err == nil {
		sellerBase, err = sellerBase.Sub(liquidityBase)
	}
	if err != nil {
		return Settlement{}, fmt.Errorf("fees exceed raised amount: %w", err)
	}

	offeredBalance, err := asset.Balance(ctx, v, info.Account, info.OfferAsset)
	if err != nil {
		return Settlement{}, err
	}
	sellerOffered := offeredBalance.
		SaturatingSub(status.TotalTokensSold).
		SaturatingSub(tokenFee).
		SaturatingSub(liquidityOffered)

	s := Settlement{
		FeeAddress:       feeAddress,
		BaseFee:          baseFee,
		TokenFee:         tokenFee,
		LiquidityBase:    liquidityBase,
		LiquidityOffered: liquidityOffered,
		SellerBase:       sellerBase,
		SellerOffered:    sellerOffered,
		Burned:           info.BurnRemains,
		UnlockAt:         now.Add(info.LockPeriod),
		FinalizedAt:      now,
	}

	transfers := []struct {
		asset types.Asset
		to    types.Principal
		amt   amount.Amount
	}{
		{info.BaseAsset, feeAddress, baseFee},
		{info.OfferAsset, feeAddress, tokenFee},
		{info.BaseAsset, e.reserve.Account(), liquidityBase},
		{info.OfferAsset, e.reserve.Account(), liquidityOffered},
		{info.BaseAsset, info.Seller, sellerBase},
	}
	for _, t := range transfers {
		if err := asset.Transfer(ctx, v, t.asset, info.Account, t.to, t.amt); err != nil {
			return Settlement{}, fmt.Errorf("settle %s to %s: %w", t.asset, t.to, err)
		}
	}

	err = e.reserve.Lock(ctx, v, LockRequest{
		Sale:        info.ID,
		Beneficiary: info.Seller,
		BaseAsset:   info.BaseAsset,
		OfferAsset:  info.OfferAsset,
		Base:        liquidityBase,
		Offered:     liquidityOffered,
		UnlockAt:    s.UnlockAt,
	})
	if err != nil {
		return Settlement{}, fmt.Errorf("lock liquidity: %w", err)
	}

	if info.BurnRemains {
		err = asset.Burn(ctx, v, info.OfferAsset, info.Account, sellerOffered)
	} else {
		err = asset.Transfer(ctx, v, info.OfferAsset, info.Account, info.Seller, sellerOffered)
	}
	if err != nil {
		return Settlement{}, fmt.Errorf("settle remaining offered: %w", err)
	}

	status.LPGenerationComplete = true
	if err := v.Put(ctx, keylet.Settlement(info.ID), s); err != nil {
		return Settlement{}, err
	}

	e.log.Info("sale finalized",
		zap.Stringer("sale", info.ID),
		zap.Stringer("seller", info.Seller),
		zap.Stringer("fee_address", feeAddress),
		amountField("raised", status.TotalRaised),
		amountField("base_fee", baseFee),
		amountField("token_fee", tokenFee),
		amountField("liquidity_base", liquidityBase),
		amountField("liquidity_offered", liquidityOffered),
		amountField("seller_base", sellerBase),
		amountField("seller_offered", sellerOffered),
		zap.Bool("burned", info.BurnRemains))
	return s, nil
}

// ForceFail lets the admin snapshotted at creation fail a sale at any point
// before liquidity generation.
func (e *Engine) ForceFail(ctx context.Context, id types.SaleID, caller types.Principal) error {
	err := e.update(ctx, id, func(v *view.View, info Info, status *Status) error {
		if caller != info.Settings.Admin {
			return ErrNotAdmin
		}
		if status.LPGenerationComplete || status.ForceFailed {
			return ErrWrongState
		}
		status.ForceFailed = true
		return nil
	})
	if err != nil {
		e.log.Debug("force fail rejected", zap.Stringer("sale", id), zap.Stringer("caller", caller), zap.Error(err))
		return fmt.Errorf("force fail: %w", err)
	}
	e.metrics.forceFail.Inc()
	e.log.Info("sale force failed", zap.Stringer("sale", id), zap.Stringer("admin", caller))
	return nil
}

// WithdrawOfferTokensOnFailure returns the sale's whole offered balance to
// the seller once the sale has failed. Later calls move nothing.
func (e *Engine) WithdrawOfferTokensOnFailure(ctx context.Context, id types.SaleID, caller types.Principal) (amount.Amount, error) {
	var moved amount.Amount
	err := e.update(ctx, id, func(v *view.View, info Info, status *Status) error {
		if caller != info.Seller {
			return ErrNotOwner
		}
		if Evaluate(e.clock.Now(), info, *status) != StateFailed {
			return ErrWrongState
		}
		balance, err := asset.Balance(ctx, v, info.Account, info.OfferAsset)
		if err != nil {
			return err
		}
		moved = balance
		return asset.Transfer(ctx, v, info.OfferAsset, info.Account, info.Seller, balance)
	})
	if err != nil {
		e.log.Debug("seller refund rejected", zap.Stringer("sale", id), zap.Stringer("caller", caller), zap.Error(err))
		return amount.Amount{}, fmt.Errorf("withdraw offer tokens: %w", err)
	}
	if !moved.IsZero() {
		e.metrics.sellerRefund.Inc()
	}
	e.log.Info("seller refunded", zap.Stringer("sale", id), zap.Stringer("seller", caller), amountField("amount", moved))
	return moved, nil
}
