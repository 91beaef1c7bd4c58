package sale

import (
	"fmt"

	"github.com/LeJamon/goIAZO/internal/core/amount"
)

// TokensForBase converts a base-asset quantity into offered units at price,
// where price is base units per 10^decimals offered units. Truncates.
func TokensForBase(base, price amount.Amount, decimals uint8) (amount.Amount, error) {
	return base.MulDiv(amount.Pow10(decimals), price)
}

// HardCap is the base raised when every offered unit sells at price.
func HardCap(offered, price amount.Amount, decimals uint8) (amount.Amount, error) {
	return offered.MulDiv(price, amount.Pow10(decimals))
}

// LiquidityOffered is the offered quantity paired with liquidityBase at the
// listing price.
func LiquidityOffered(liquidityBase, listingPrice amount.Amount, decimals uint8) (amount.Amount, error) {
	return TokensForBase(liquidityBase, listingPrice, decimals)
}

// TokensRequired is what a seller must escrow at creation: the offered
// amount, the offered side of the liquidity reservation at full hardcap,
// and the token fee.
func TokensRequired(offered, price, listingPrice amount.Amount, liquidityPercent, tokenFee uint16, decimals uint8) (amount.Amount, error) {
	if listingPrice.IsZero() {
		listingPrice = price
	}
	hardCap, err := HardCap(offered, price, decimals)
	if err != nil {
		return amount.Amount{}, fmt.Errorf("hardcap: %w", err)
	}
	liquidityBase, err := hardCap.PerMille(liquidityPercent)
	if err != nil {
		return amount.Amount{}, fmt.Errorf("liquidity base: %w", err)
	}
	liquidityOffered, err := LiquidityOffered(liquidityBase, listingPrice, decimals)
	if err != nil {
		return amount.Amount{}, fmt.Errorf("liquidity offered: %w", err)
	}
	fee, err := offered.PerMille(tokenFee)
	if err != nil {
		return amount.Amount{}, fmt.Errorf("token fee: %w", err)
	}

	total, err := offered.Add(liquidityOffered)
	if err != nil {
		return amount.Amount{}, err
	}
	return total.Add(fee)
}
