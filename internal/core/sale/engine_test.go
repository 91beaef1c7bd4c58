package sale_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LeJamon/goIAZO/internal/core/amount"
	"github.com/LeJamon/goIAZO/internal/core/asset"
	"github.com/LeJamon/goIAZO/internal/core/liquidity"
	"github.com/LeJamon/goIAZO/internal/core/sale"
	"github.com/LeJamon/goIAZO/internal/core/sale/mocks"
	"github.com/LeJamon/goIAZO/internal/core/types"
	"github.com/LeJamon/goIAZO/internal/core/view"
	jtx "github.com/LeJamon/goIAZO/internal/testing"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const native = types.NativeAsset

type fixture struct {
	env    *jtx.Env
	ctx    context.Context
	seller *jtx.Account
	alice  *jtx.Account
	bob    *jtx.Account
	carol  *jtx.Account
	info   sale.Info
}

// newFixture creates the reference sale with three funded buyers. The
// seller starts with 30 TKN and is left with 4.8 after escrowing 25.2.
func newFixture(t *testing.T, build func(*jtx.ParamsBuilder), opts ...jtx.Option) *fixture {
	t.Helper()
	env := jtx.NewEnv(t, opts...)
	f := &fixture{
		env:    env,
		ctx:    env.Context(),
		seller: jtx.NewAccount("seller"),
		alice:  jtx.NewAccount("alice"),
		bob:    jtx.NewAccount("bob"),
		carol:  jtx.NewAccount("carol"),
	}
	env.Issue(jtx.OfferAsset, jtx.DefaultDecimals, f.seller, jtx.Units("30"))
	env.Fund(native, jtx.Units("20"), f.alice, f.bob, f.carol)

	b := jtx.Params(env, f.seller)
	if build != nil {
		build(b)
	}
	f.info = env.CreateSale(f.seller, b.Build())
	return f
}

func (f *fixture) deposit(t *testing.T, buyer *jtx.Account, units string) sale.DepositReceipt {
	t.Helper()
	r, err := f.env.Engine.Deposit(f.ctx, f.info.ID, buyer.ID, jtx.Units(units))
	require.NoError(t, err)
	return r
}

func (f *fixture) escrow(a types.Asset) amount.Amount {
	return f.env.Balance(f.info.Account, a)
}

func TestWorkedExample(t *testing.T) {
	f := newFixture(t, nil)
	env := f.env

	jtx.RequireAmount(t, jtx.Units("2.1"), f.info.HardCap)
	jtx.RequireAmount(t, jtx.Units("25.2"), f.info.TokensRequired)
	jtx.RequireAmount(t, jtx.Units("25.2"), f.escrow(jtx.OfferAsset))
	jtx.RequireUnits(t, env, f.seller, jtx.OfferAsset, "4.8")

	jtx.RequireState(t, env, f.info.ID, sale.StateQueued)
	env.Open(f.info)
	jtx.RequireState(t, env, f.info.ID, sale.StateActive)

	f.deposit(t, f.alice, "0.4")
	f.deposit(t, f.bob, "0.01")
	r := f.deposit(t, f.carol, "12.1")
	jtx.RequireAmount(t, jtx.Units("1.69"), r.Accepted)
	jtx.RequireAmount(t, jtx.Units("10.41"), r.Refunded)
	jtx.RequireAmount(t, jtx.Units("16.9"), r.TokensBought)

	// Only the accepted part left carol.
	jtx.RequireUnits(t, env, f.carol, native, "18.31")

	status, err := env.Engine.Status(f.ctx, f.info.ID)
	require.NoError(t, err)
	jtx.RequireAmount(t, f.info.HardCap, status.TotalRaised)
	jtx.RequireAmount(t, jtx.Units("21"), status.TotalTokensSold)
	assert.Equal(t, uint64(3), status.NumBuyers)
	jtx.RequireState(t, env, f.info.ID, sale.StateSuccess)

	_, err = env.Engine.Deposit(f.ctx, f.info.ID, f.alice.ID, jtx.Units("0.1"))
	assert.ErrorIs(t, err, sale.ErrNotActive)

	s, err := env.Engine.Finalize(f.ctx, f.info.ID)
	require.NoError(t, err)
	jtx.RequireAmount(t, jtx.Units("0.105"), s.BaseFee)
	jtx.RequireAmount(t, jtx.Units("1.05"), s.TokenFee)
	jtx.RequireAmount(t, jtx.Units("0.63"), s.LiquidityBase)
	jtx.RequireAmount(t, jtx.Units("3.15"), s.LiquidityOffered)
	jtx.RequireAmount(t, jtx.Units("1.365"), s.SellerBase)
	assert.True(t, s.SellerOffered.IsZero())
	assert.Equal(t, env.Fees.ID, s.FeeAddress)
	assert.Equal(t, env.Now().Add(f.info.LockPeriod), s.UnlockAt)

	// The fee address also holds the 10 native creation fee.
	jtx.RequireUnits(t, env, env.Fees, native, "10.105")
	jtx.RequireUnits(t, env, env.Fees, jtx.OfferAsset, "1.05")
	jtx.RequireBalance(t, env, liquidity.DefaultAccount, native, jtx.Units("0.63"))
	jtx.RequireBalance(t, env, liquidity.DefaultAccount, jtx.OfferAsset, jtx.Units("3.15"))
	jtx.RequireUnits(t, env, f.seller, native, "1.365")
	jtx.RequireUnits(t, env, f.seller, jtx.OfferAsset, "4.8")

	lock, err := env.Reserve.Get(f.ctx, f.info.ID)
	require.NoError(t, err)
	assert.Equal(t, f.seller.ID, lock.Beneficiary)
	jtx.RequireAmount(t, jtx.Units("0.63"), lock.Base)
	jtx.RequireAmount(t, jtx.Units("3.15"), lock.Offered)

	for _, tc := range []struct {
		buyer *jtx.Account
		want  string
	}{
		{f.alice, "4"},
		{f.bob, "0.1"},
		{f.carol, "16.9"},
	} {
		w, err := env.Engine.Withdraw(f.ctx, f.info.ID, tc.buyer.ID)
		require.NoError(t, err)
		assert.Equal(t, jtx.OfferAsset, w.Asset)
		jtx.RequireAmount(t, jtx.Units(tc.want), w.Amount)
		jtx.RequireUnits(t, env, tc.buyer, jtx.OfferAsset, tc.want)
	}

	assert.True(t, f.escrow(native).IsZero())
	assert.True(t, f.escrow(jtx.OfferAsset).IsZero())

	status, err = env.Engine.Status(f.ctx, f.info.ID)
	require.NoError(t, err)
	assert.True(t, status.LPGenerationComplete)
	jtx.RequireAmount(t, jtx.Units("21"), status.TotalTokensWithdrawn)
	// TotalRaised is never decremented.
	jtx.RequireAmount(t, f.info.HardCap, status.TotalRaised)
}

func TestFinalizeIsIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	env := f.env
	env.Open(f.info)
	f.deposit(t, f.alice, "2.1")

	first, err := env.Engine.Finalize(f.ctx, f.info.ID)
	require.NoError(t, err)
	feeBase := env.Balance(env.Fees.ID, native)
	sellerBase := env.Balance(f.seller.ID, native)
	escrowOffered := f.escrow(jtx.OfferAsset)

	env.AdvanceTime(time.Hour)
	second, err := env.Engine.Finalize(f.ctx, f.info.ID)
	require.NoError(t, err)
	requireSameSettlement(t, first, second)

	jtx.RequireBalance(t, env, env.Fees.ID, native, feeBase)
	jtx.RequireBalance(t, env, f.seller.ID, native, sellerBase)
	jtx.RequireAmount(t, escrowOffered, f.escrow(jtx.OfferAsset))

	stored, found, err := env.Engine.Settlement(f.ctx, f.info.ID)
	require.NoError(t, err)
	assert.True(t, found)
	requireSameSettlement(t, first, stored)
}

func requireSameSettlement(t *testing.T, want, got sale.Settlement) {
	t.Helper()
	assert.Equal(t, want.FeeAddress, got.FeeAddress)
	for _, pair := range [][2]amount.Amount{
		{want.BaseFee, got.BaseFee},
		{want.TokenFee, got.TokenFee},
		{want.LiquidityBase, got.LiquidityBase},
		{want.LiquidityOffered, got.LiquidityOffered},
		{want.SellerBase, got.SellerBase},
		{want.SellerOffered, got.SellerOffered},
	} {
		jtx.RequireAmount(t, pair[0], pair[1])
	}
	assert.Equal(t, want.Burned, got.Burned)
	assert.True(t, want.UnlockAt.Equal(got.UnlockAt))
	assert.True(t, want.FinalizedAt.Equal(got.FinalizedAt))
}

func TestWithdrawTwicePaysOnce(t *testing.T) {
	f := newFixture(t, nil)
	env := f.env
	env.Open(f.info)
	f.deposit(t, f.alice, "1")
	env.Close(f.info)

	// The first withdrawal finalizes the sale.
	w, err := env.Engine.Withdraw(f.ctx, f.info.ID, f.alice.ID)
	require.NoError(t, err)
	jtx.RequireAmount(t, jtx.Units("10"), w.Amount)

	_, found, err := env.Engine.Settlement(f.ctx, f.info.ID)
	require.NoError(t, err)
	assert.True(t, found)

	w, err = env.Engine.Withdraw(f.ctx, f.info.ID, f.alice.ID)
	require.NoError(t, err)
	assert.True(t, w.Amount.IsZero())
	jtx.RequireUnits(t, env, f.alice, jtx.OfferAsset, "10")

	// Someone who never deposited gets nothing and no record.
	w, err = env.Engine.Withdraw(f.ctx, f.info.ID, f.bob.ID)
	require.NoError(t, err)
	assert.True(t, w.Amount.IsZero())
	status, err := env.Engine.Status(f.ctx, f.info.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), status.NumBuyers)
}

func TestSoftCapMissed(t *testing.T) {
	f := newFixture(t, nil)
	env := f.env
	env.Open(f.info)
	f.deposit(t, f.alice, "0.05")
	f.deposit(t, f.bob, "0.1")
	f.deposit(t, f.alice, "0.02")

	_, err := env.Engine.Withdraw(f.ctx, f.info.ID, f.alice.ID)
	assert.ErrorIs(t, err, sale.ErrNotWithdrawable)

	env.Close(f.info)
	jtx.RequireState(t, env, f.info.ID, sale.StateFailed)

	// Finalizing a failed sale is a no-op.
	s, err := env.Engine.Finalize(f.ctx, f.info.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.Settlement{}, s)

	for _, tc := range []struct {
		buyer *jtx.Account
		want  string
	}{
		{f.alice, "0.07"},
		{f.bob, "0.1"},
	} {
		w, err := env.Engine.Withdraw(f.ctx, f.info.ID, tc.buyer.ID)
		require.NoError(t, err)
		assert.Equal(t, native, w.Asset)
		jtx.RequireAmount(t, jtx.Units(tc.want), w.Amount)
		jtx.RequireUnits(t, env, tc.buyer, native, "20")

		w, err = env.Engine.Withdraw(f.ctx, f.info.ID, tc.buyer.ID)
		require.NoError(t, err)
		assert.True(t, w.Amount.IsZero())
	}

	_, err = env.Engine.WithdrawOfferTokensOnFailure(f.ctx, f.info.ID, f.alice.ID)
	assert.ErrorIs(t, err, sale.ErrNotOwner)

	moved, err := env.Engine.WithdrawOfferTokensOnFailure(f.ctx, f.info.ID, f.seller.ID)
	require.NoError(t, err)
	jtx.RequireAmount(t, jtx.Units("25.2"), moved)
	jtx.RequireUnits(t, env, f.seller, jtx.OfferAsset, "30")

	moved, err = env.Engine.WithdrawOfferTokensOnFailure(f.ctx, f.info.ID, f.seller.ID)
	require.NoError(t, err)
	assert.True(t, moved.IsZero())

	status, err := env.Engine.Status(f.ctx, f.info.ID)
	require.NoError(t, err)
	jtx.RequireAmount(t, jtx.Units("0.17"), status.TotalRaised)
	jtx.RequireAmount(t, jtx.Units("0.17"), status.TotalBaseWithdrawn)
	assert.False(t, status.LPGenerationComplete)
}

func TestSellerRefundRequiresFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.env.Open(f.info)

	_, err := f.env.Engine.WithdrawOfferTokensOnFailure(f.ctx, f.info.ID, f.seller.ID)
	assert.ErrorIs(t, err, sale.ErrWrongState)
}

func TestDepositOutsideWindow(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.env.Engine.Deposit(f.ctx, f.info.ID, f.alice.ID, jtx.Units("0.1"))
	assert.ErrorIs(t, err, sale.ErrNotActive)

	f.env.Close(f.info)
	_, err = f.env.Engine.Deposit(f.ctx, f.info.ID, f.alice.ID, jtx.Units("0.1"))
	assert.ErrorIs(t, err, sale.ErrNotActive)

	jtx.RequireUnits(t, f.env, f.alice, native, "20")
}

func TestDepositPerBuyerCap(t *testing.T) {
	f := newFixture(t, func(b *jtx.ParamsBuilder) {
		b.MaxSpend(jtx.Units("1"))
	})
	f.env.Open(f.info)

	r := f.deposit(t, f.alice, "0.7")
	jtx.RequireAmount(t, jtx.Units("0.7"), r.Accepted)
	assert.True(t, r.Refunded.IsZero())

	r = f.deposit(t, f.alice, "0.7")
	jtx.RequireAmount(t, jtx.Units("0.3"), r.Accepted)
	jtx.RequireAmount(t, jtx.Units("0.4"), r.Refunded)
	jtx.RequireAmount(t, jtx.Units("10"), r.TokensBought)

	_, err := f.env.Engine.Deposit(f.ctx, f.info.ID, f.alice.ID, jtx.Units("0.1"))
	assert.ErrorIs(t, err, sale.ErrDepositRejected)

	buyer, err := f.env.Engine.Buyer(f.ctx, f.info.ID, f.alice.ID)
	require.NoError(t, err)
	jtx.RequireAmount(t, jtx.Units("1"), buyer.Deposited)
	jtx.RequireUnits(t, f.env, f.alice, native, "19")
}

func TestDepositAfterHardCap(t *testing.T) {
	f := newFixture(t, nil)
	f.env.Open(f.info)
	f.deposit(t, f.alice, "2.1")

	_, err := f.env.Engine.Deposit(f.ctx, f.info.ID, f.bob.ID, jtx.Units("0.1"))
	assert.ErrorIs(t, err, sale.ErrNotActive)
}

func TestDepositIsAtomic(t *testing.T) {
	f := newFixture(t, nil)
	env := f.env
	poor := jtx.NewAccount("poor")
	env.Fund(native, jtx.Units("0.1"), poor)
	env.Open(f.info)

	_, err := env.Engine.Deposit(f.ctx, f.info.ID, poor.ID, jtx.Units("0.4"))
	assert.ErrorIs(t, err, asset.ErrInsufficientFunds)

	status, err := env.Engine.Status(f.ctx, f.info.ID)
	require.NoError(t, err)
	assert.True(t, status.TotalRaised.IsZero())
	assert.Zero(t, status.NumBuyers)
	jtx.RequireUnits(t, env, poor, native, "0.1")
}

func TestForceFail(t *testing.T) {
	f := newFixture(t, nil)
	env := f.env
	env.Open(f.info)
	f.deposit(t, f.alice, "1")

	err := env.Engine.ForceFail(f.ctx, f.info.ID, f.seller.ID)
	assert.ErrorIs(t, err, sale.ErrNotAdmin)

	require.NoError(t, env.Engine.ForceFail(f.ctx, f.info.ID, env.Admin.ID))
	jtx.RequireState(t, env, f.info.ID, sale.StateFailed)

	_, err = env.Engine.Deposit(f.ctx, f.info.ID, f.bob.ID, jtx.Units("0.1"))
	assert.ErrorIs(t, err, sale.ErrNotActive)

	err = env.Engine.ForceFail(f.ctx, f.info.ID, env.Admin.ID)
	assert.ErrorIs(t, err, sale.ErrWrongState)

	w, err := env.Engine.Withdraw(f.ctx, f.info.ID, f.alice.ID)
	require.NoError(t, err)
	jtx.RequireAmount(t, jtx.Units("1"), w.Amount)
}

func TestForceFailUsesSnapshottedAdmin(t *testing.T) {
	f := newFixture(t, nil)
	env := f.env
	next := jtx.NewAccount("next-admin")
	require.NoError(t, env.Settings.SetAdmin(f.ctx, env.Admin.ID, next.ID))

	err := env.Engine.ForceFail(f.ctx, f.info.ID, next.ID)
	assert.ErrorIs(t, err, sale.ErrNotAdmin)
	require.NoError(t, env.Engine.ForceFail(f.ctx, f.info.ID, env.Admin.ID))
}

func TestForceFailAfterSuccess(t *testing.T) {
	f := newFixture(t, nil)
	env := f.env
	env.Open(f.info)
	f.deposit(t, f.alice, "2.1")

	// Success without liquidity generation can still be overridden.
	require.NoError(t, env.Engine.ForceFail(f.ctx, f.info.ID, env.Admin.ID))
	jtx.RequireState(t, env, f.info.ID, sale.StateFailed)

	g := newFixture(t, nil)
	g.env.Open(g.info)
	g.deposit(t, g.alice, "2.1")
	_, err := g.env.Engine.Finalize(g.ctx, g.info.ID)
	require.NoError(t, err)

	err = g.env.Engine.ForceFail(g.ctx, g.info.ID, g.env.Admin.ID)
	assert.ErrorIs(t, err, sale.ErrWrongState)
}

func TestFinalizeBeforeResolution(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.env.Engine.Finalize(f.ctx, f.info.ID)
	assert.ErrorIs(t, err, sale.ErrWrongState)

	f.env.Open(f.info)
	_, err = f.env.Engine.Finalize(f.ctx, f.info.ID)
	assert.ErrorIs(t, err, sale.ErrWrongState)
}

func TestBurnRemains(t *testing.T) {
	f := newFixture(t, func(b *jtx.ParamsBuilder) { b.Burn() })
	env := f.env
	env.Open(f.info)
	f.deposit(t, f.alice, "1")
	env.Close(f.info)

	s, err := env.Engine.Finalize(f.ctx, f.info.ID)
	require.NoError(t, err)
	assert.True(t, s.Burned)
	jtx.RequireAmount(t, jtx.Units("0.05"), s.BaseFee)
	jtx.RequireAmount(t, jtx.Units("0.3"), s.LiquidityBase)
	jtx.RequireAmount(t, jtx.Units("1.5"), s.LiquidityOffered)
	jtx.RequireAmount(t, jtx.Units("0.65"), s.SellerBase)
	// 25.2 escrowed - 10 sold - 1.05 fee - 1.5 liquidity
	jtx.RequireAmount(t, jtx.Units("12.65"), s.SellerOffered)

	jtx.RequireBalance(t, env, types.ZeroPrincipal, jtx.OfferAsset, jtx.Units("12.65"))
	jtx.RequireUnits(t, env, f.seller, jtx.OfferAsset, "4.8")
	jtx.RequireAmount(t, jtx.Units("10"), f.escrow(jtx.OfferAsset))
}

func TestFeeAddressIsReadLive(t *testing.T) {
	f := newFixture(t, nil)
	env := f.env
	treasury := jtx.NewAccount("treasury")
	require.NoError(t, env.Settings.SetFeeAddress(f.ctx, env.Admin.ID, treasury.ID))

	env.Open(f.info)
	f.deposit(t, f.alice, "2.1")
	s, err := env.Engine.Finalize(f.ctx, f.info.ID)
	require.NoError(t, err)

	assert.Equal(t, treasury.ID, s.FeeAddress)
	jtx.RequireUnits(t, env, treasury, native, "0.105")
	jtx.RequireUnits(t, env, treasury, jtx.OfferAsset, "1.05")
}

func TestSaleNotFound(t *testing.T) {
	env := jtx.NewEnv(t)
	var id types.SaleID
	id[0] = 1

	_, err := env.Engine.Info(env.Context(), id)
	assert.ErrorIs(t, err, sale.ErrSaleNotFound)
	_, err = env.Engine.Deposit(env.Context(), id, jtx.NewAccount("alice").ID, jtx.Units("1"))
	assert.ErrorIs(t, err, sale.ErrSaleNotFound)
	_, err = env.Engine.Buyer(env.Context(), id, jtx.NewAccount("alice").ID)
	assert.ErrorIs(t, err, sale.ErrSaleNotFound)
}

func TestFinalizeLocksLiquidityOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	reserve := mocks.NewMockLiquidityReserve(ctrl)
	account := jtx.NewAccount("mock-reserve")

	reserve.EXPECT().Account().Return(account.ID).AnyTimes()
	reserve.EXPECT().
		Lock(gomock.Any(), gomock.Any(), gomock.AssignableToTypeOf(sale.LockRequest{})).
		DoAndReturn(func(_ context.Context, _ *view.View, req sale.LockRequest) error {
			assert.Equal(t, jtx.NewAccount("seller").ID, req.Beneficiary)
			assert.Equal(t, native, req.BaseAsset)
			assert.Equal(t, jtx.OfferAsset, req.OfferAsset)
			jtx.RequireAmount(t, jtx.Units("0.63"), req.Base)
			jtx.RequireAmount(t, jtx.Units("3.15"), req.Offered)
			return nil
		}).
		Times(1)

	f := newFixture(t, nil, jtx.WithReserve(reserve))
	env := f.env
	env.Open(f.info)
	f.deposit(t, f.alice, "2.1")

	// Withdraw finalizes; the later calls find the stored settlement.
	_, err := env.Engine.Withdraw(f.ctx, f.info.ID, f.alice.ID)
	require.NoError(t, err)
	_, err = env.Engine.Finalize(f.ctx, f.info.ID)
	require.NoError(t, err)
	_, err = env.Engine.Finalize(f.ctx, f.info.ID)
	require.NoError(t, err)

	jtx.RequireUnits(t, env, account, native, "0.63")
	jtx.RequireUnits(t, env, account, jtx.OfferAsset, "3.15")
}

func TestFinalizeRollsBackWhenLockFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	reserve := mocks.NewMockLiquidityReserve(ctrl)
	account := jtx.NewAccount("mock-reserve")
	errReserve := errors.New("reserve unavailable")

	reserve.EXPECT().Account().Return(account.ID).AnyTimes()
	gomock.InOrder(
		reserve.EXPECT().Lock(gomock.Any(), gomock.Any(), gomock.Any()).Return(errReserve),
		reserve.EXPECT().Lock(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
	)

	f := newFixture(t, nil, jtx.WithReserve(reserve))
	env := f.env
	env.Open(f.info)
	f.deposit(t, f.alice, "2.1")

	_, err := env.Engine.Finalize(f.ctx, f.info.ID)
	assert.ErrorIs(t, err, errReserve)

	status, err := env.Engine.Status(f.ctx, f.info.ID)
	require.NoError(t, err)
	assert.False(t, status.LPGenerationComplete)
	jtx.RequireAmount(t, jtx.Units("2.1"), f.escrow(native))
	jtx.RequireAmount(t, jtx.Units("25.2"), f.escrow(jtx.OfferAsset))
	assert.True(t, env.Balance(account.ID, native).IsZero())
	_, found, err := env.Engine.Settlement(f.ctx, f.info.ID)
	require.NoError(t, err)
	assert.False(t, found)

	_, err = env.Engine.Finalize(f.ctx, f.info.ID)
	require.NoError(t, err)
	jtx.RequireUnits(t, env, account, native, "0.63")
}

func TestSummary(t *testing.T) {
	f := newFixture(t, nil)
	f.env.Open(f.info)
	f.deposit(t, f.alice, "0.5")

	s, err := f.env.Engine.Summary(f.ctx, f.info.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.StateActive, s.State)
	assert.Equal(t, f.info.ID, s.Info.ID)
	jtx.RequireAmount(t, jtx.Units("0.5"), s.Status.TotalRaised)
}
