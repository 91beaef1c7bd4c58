package testing

import (
	"github.com/LeJamon/goIAZO/internal/core/amount"
)

// DefaultDecimals is the precision of every asset Env issues unless told
// otherwise.
const DefaultDecimals uint8 = 18

// Units parses a decimal string into base units at DefaultDecimals.
// For example, Units("0.1") returns 10^17.
func Units(s string) amount.Amount {
	return amount.MustParse(s, DefaultDecimals)
}

// UnitsAt parses a decimal string into base units at the given decimals.
func UnitsAt(s string, decimals uint8) amount.Amount {
	return amount.MustParse(s, decimals)
}

// Raw wraps a plain base-unit count.
func Raw(n uint64) amount.Amount {
	return amount.New(n)
}
