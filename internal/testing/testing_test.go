package testing

import (
	"testing"
	"time"

	"github.com/LeJamon/goIAZO/internal/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	alice1 := NewAccount("alice")
	alice2 := NewAccount("alice")

	// Same name should produce same account
	assert.Equal(t, alice1.ID, alice2.ID)
	assert.Equal(t, alice1.Keypair.PublicKey(), alice2.Keypair.PublicKey())

	bob := NewAccount("bob")
	assert.NotEqual(t, alice1.ID, bob.ID)
	assert.Contains(t, alice1.String(), "alice")
}

func TestUnits(t *testing.T) {
	assert.Equal(t, "100000000000000000", Units("0.1").String())
	assert.Equal(t, "2500000", UnitsAt("2.5", 6).String())
	assert.Equal(t, "7", Raw(7).String())
}

func TestManualClock(t *testing.T) {
	clock := NewManualClock()
	start := clock.Now()

	clock.Advance(10 * time.Second)
	assert.Equal(t, start.Add(10*time.Second), clock.Now())

	target := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock.Set(target)
	assert.Equal(t, target, clock.Now())
}

func TestEnvFundAndBalance(t *testing.T) {
	env := NewEnv(t)
	alice := NewAccount("alice")

	env.Fund(types.NativeAsset, Units("5"), alice)
	RequireUnits(t, env, alice, types.NativeAsset, "5")

	env.Issue(OfferAsset, DefaultDecimals, alice, Units("30"))
	RequireUnits(t, env, alice, OfferAsset, "30")
}

func TestEnvCreateSale(t *testing.T) {
	env := NewEnv(t)
	seller := NewAccount("seller")
	env.Issue(OfferAsset, DefaultDecimals, seller, Units("30"))

	info := env.CreateSale(seller, Params(env, seller).Build())
	require.Equal(t, seller.ID, info.Seller)
	RequireUnits(t, env, seller, OfferAsset, "4.8")
	RequireUnits(t, env, env.Fees, types.NativeAsset, "10")

	env.Open(info)
	assert.Equal(t, info.StartTime, env.Now())
	env.Close(info)
	assert.Equal(t, info.EndTime(), env.Now())
}
