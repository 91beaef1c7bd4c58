package liquidity_test

import (
	"testing"

	"github.com/LeJamon/goIAZO/internal/core/liquidity"
	"github.com/LeJamon/goIAZO/internal/core/sale"
	"github.com/LeJamon/goIAZO/internal/core/types"
	"github.com/LeJamon/goIAZO/internal/core/view"
	jtx "github.com/LeJamon/goIAZO/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// finalizedSale runs the reference sale to a full hardcap and finalizes it.
func finalizedSale(t *testing.T) (*jtx.Env, *jtx.Account, sale.Settlement, sale.Info) {
	t.Helper()
	env := jtx.NewEnv(t)
	seller := jtx.NewAccount("seller")
	buyer := jtx.NewAccount("buyer")
	env.Issue(jtx.OfferAsset, jtx.DefaultDecimals, seller, jtx.Units("30"))
	env.Fund(types.NativeAsset, jtx.Units("5"), buyer)

	info := env.CreateSale(seller, jtx.Params(env, seller).Build())
	env.Open(info)
	_, err := env.Engine.Deposit(env.Context(), info.ID, buyer.ID, jtx.Units("2.1"))
	require.NoError(t, err)
	s, err := env.Engine.Finalize(env.Context(), info.ID)
	require.NoError(t, err)
	return env, seller, s, info
}

func TestLockRecorded(t *testing.T) {
	env, seller, s, info := finalizedSale(t)

	lock, err := env.Reserve.Get(env.Context(), info.ID)
	require.NoError(t, err)
	assert.Equal(t, info.ID, lock.Sale)
	assert.Equal(t, seller.ID, lock.Beneficiary)
	assert.Equal(t, types.NativeAsset, lock.BaseAsset)
	assert.Equal(t, jtx.OfferAsset, lock.OfferAsset)
	jtx.RequireAmount(t, s.LiquidityBase, lock.Base)
	jtx.RequireAmount(t, s.LiquidityOffered, lock.Offered)
	assert.True(t, s.UnlockAt.Equal(lock.UnlockAt))
	assert.False(t, lock.Released)
}

func TestRelease(t *testing.T) {
	env, seller, s, info := finalizedSale(t)
	ctx := env.Context()
	sellerBase := env.Balance(seller.ID, types.NativeAsset)

	_, err := env.Reserve.Release(ctx, info.ID, seller.ID)
	assert.ErrorIs(t, err, liquidity.ErrStillLocked)

	env.SetTime(s.UnlockAt)
	_, err = env.Reserve.Release(ctx, info.ID, jtx.NewAccount("mallory").ID)
	assert.ErrorIs(t, err, liquidity.ErrNotBeneficiary)

	lock, err := env.Reserve.Release(ctx, info.ID, seller.ID)
	require.NoError(t, err)
	assert.True(t, lock.Released)
	assert.True(t, lock.ReleasedAt.Equal(s.UnlockAt))

	expected, err := sellerBase.Add(jtx.Units("0.63"))
	require.NoError(t, err)
	jtx.RequireBalance(t, env, seller.ID, types.NativeAsset, expected)
	jtx.RequireUnits(t, env, seller, jtx.OfferAsset, "7.95")
	assert.True(t, env.Balance(liquidity.DefaultAccount, types.NativeAsset).IsZero())
	assert.True(t, env.Balance(liquidity.DefaultAccount, jtx.OfferAsset).IsZero())

	_, err = env.Reserve.Release(ctx, info.ID, seller.ID)
	assert.ErrorIs(t, err, liquidity.ErrAlreadyReleased)
}

func TestLockTwice(t *testing.T) {
	env, seller, _, info := finalizedSale(t)

	err := env.Store.Update(env.Context(), func(v *view.View) error {
		return env.Reserve.Lock(env.Context(), v, sale.LockRequest{Sale: info.ID, Beneficiary: seller.ID})
	})
	assert.ErrorIs(t, err, liquidity.ErrAlreadyLocked)
}

func TestLockNotFound(t *testing.T) {
	env := jtx.NewEnv(t)
	var id types.SaleID

	_, err := env.Reserve.Get(env.Context(), id)
	assert.ErrorIs(t, err, liquidity.ErrLockNotFound)
}

func TestDefaultAccount(t *testing.T) {
	env := jtx.NewEnv(t)
	assert.Equal(t, liquidity.DefaultAccount, env.Reserve.Account())
	assert.False(t, liquidity.DefaultAccount.IsZero())

	custom := jtx.NewAccount("pool")
	r := liquidity.NewReserve(custom.ID, env.Store, env.Clock(), zap.NewNop())
	assert.Equal(t, custom.ID, r.Account())
}
