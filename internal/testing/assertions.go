package testing

import (
	"testing"

	"github.com/LeJamon/goIAZO/internal/core/amount"
	"github.com/LeJamon/goIAZO/internal/core/sale"
	"github.com/LeJamon/goIAZO/internal/core/types"
	"github.com/stretchr/testify/require"
)

// RequireBalance asserts that a principal holds exactly expected of an asset.
func RequireBalance(t *testing.T, env *Env, holder types.Principal, a types.Asset, expected amount.Amount) {
	t.Helper()
	actual := env.Balance(holder, a)
	require.True(t, expected.Equal(actual),
		"%s balance of %s mismatch: expected %s, got %s", a, holder, expected, actual)
}

// RequireUnits asserts a balance given as an 18-decimal string.
func RequireUnits(t *testing.T, env *Env, acc *Account, a types.Asset, expected string) {
	t.Helper()
	RequireBalance(t, env, acc.ID, a, Units(expected))
}

// RequireAmount asserts two amounts are equal and prints both in units.
func RequireAmount(t *testing.T, expected, actual amount.Amount) {
	t.Helper()
	require.True(t, expected.Equal(actual),
		"expected %s, got %s", expected.Format(DefaultDecimals), actual.Format(DefaultDecimals))
}

// RequireState asserts the evaluated state of a sale.
func RequireState(t *testing.T, env *Env, id types.SaleID, expected sale.State) {
	t.Helper()
	actual, err := env.Engine.State(env.Context(), id)
	require.NoError(t, err)
	require.Equal(t, expected, actual, "sale %s state mismatch", id)
}
