// Package asset is the balance book shared by every principal: buyers,
// sellers, sale escrow accounts, the fee address and the liquidity reserve.
package asset

import (
	"context"
	"errors"
	"fmt"

	"github.com/LeJamon/goIAZO/internal/core/amount"
	"github.com/LeJamon/goIAZO/internal/core/ledger/keylet"
	"github.com/LeJamon/goIAZO/internal/core/types"
	"github.com/LeJamon/goIAZO/internal/core/view"
)

var (
	// ErrInsufficientFunds is returned when a holder cannot cover a transfer.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrOverflow is returned when a credit would exceed 256 bits.
	ErrOverflow = errors.New("balance overflow")

	// ErrUnknownAsset is returned for assets that were never issued.
	ErrUnknownAsset = errors.New("unknown asset")

	// ErrAssetExists is returned when issuing an asset code twice.
	ErrAssetExists = errors.New("asset already issued")
)

// MaxDecimals bounds the decimals an asset may declare so that 10^decimals
// always fits comfortably in 256 bits.
const MaxDecimals = 36

// Info is the metadata recorded when an asset is issued.
type Info struct {
	Asset    types.Asset     `codec:"asset"`
	Decimals uint8           `codec:"decimals"`
	Issuer   types.Principal `codec:"issuer"`
	Supply   amount.Amount   `codec:"supply"`
}

type balance struct {
	Amount amount.Amount `codec:"amount"`
}

// Issue registers a new asset and credits the initial supply to holder.
func Issue(ctx context.Context, v *view.View, a types.Asset, decimals uint8, issuer, holder types.Principal, supply amount.Amount) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if decimals > MaxDecimals {
		return fmt.Errorf("%w: %d decimals exceeds %d", types.ErrInvalidAsset, decimals, MaxDecimals)
	}

	info := Info{Asset: a, Decimals: decimals, Issuer: issuer, Supply: supply}
	if err := v.Insert(ctx, keylet.Asset(a), info); err != nil {
		if errors.Is(err, view.ErrEntryExists) {
			return fmt.Errorf("%w: %s", ErrAssetExists, a)
		}
		return err
	}
	return Credit(ctx, v, a, holder, supply)
}

// Mint increases the supply of an issued asset and credits it to holder.
func Mint(ctx context.Context, v *view.View, a types.Asset, holder types.Principal, amt amount.Amount) error {
	info, err := Lookup(ctx, v, a)
	if err != nil {
		return err
	}
	supply, err := info.Supply.Add(amt)
	if err != nil {
		return fmt.Errorf("%w: supply of %s", ErrOverflow, a)
	}
	info.Supply = supply
	if err := v.Put(ctx, keylet.Asset(a), info); err != nil {
		return err
	}
	return Credit(ctx, v, a, holder, amt)
}

// Lookup returns the metadata of an issued asset.
func Lookup(ctx context.Context, r view.Reader, a types.Asset) (Info, error) {
	var info Info
	found, err := r.Read(ctx, keylet.Asset(a), &info)
	if err != nil {
		return Info{}, err
	}
	if !found {
		return Info{}, fmt.Errorf("%w: %s", ErrUnknownAsset, a)
	}
	return info, nil
}

// Balance returns holder's balance of a. Missing records read as zero.
func Balance(ctx context.Context, r view.Reader, holder types.Principal, a types.Asset) (amount.Amount, error) {
	var b balance
	if _, err := r.Read(ctx, keylet.Balance(holder, a), &b); err != nil {
		return amount.Amount{}, err
	}
	return b.Amount, nil
}

// Credit adds amt to holder's balance without a matching debit. Only issuance
// paths call it directly.
func Credit(ctx context.Context, v *view.View, a types.Asset, holder types.Principal, amt amount.Amount) error {
	if amt.IsZero() {
		return nil
	}
	current, err := Balance(ctx, v, holder, a)
	if err != nil {
		return err
	}
	next, err := current.Add(amt)
	if err != nil {
		return fmt.Errorf("%w: %s balance of %s", ErrOverflow, a, holder)
	}
	return v.Put(ctx, keylet.Balance(holder, a), balance{Amount: next})
}

func debit(ctx context.Context, v *view.View, a types.Asset, holder types.Principal, amt amount.Amount) error {
	current, err := Balance(ctx, v, holder, a)
	if err != nil {
		return err
	}
	next, err := current.Sub(amt)
	if err != nil {
		return fmt.Errorf("%w: %s holds %s %s, needs %s", ErrInsufficientFunds, holder, current, a, amt)
	}
	if next.IsZero() {
		return v.Erase(ctx, keylet.Balance(holder, a))
	}
	return v.Put(ctx, keylet.Balance(holder, a), balance{Amount: next})
}

// Transfer moves amt of a from one holder to another. A zero amount is a
// no-op.
func Transfer(ctx context.Context, v *view.View, a types.Asset, from, to types.Principal, amt amount.Amount) error {
	if amt.IsZero() {
		return nil
	}
	if err := debit(ctx, v, a, from, amt); err != nil {
		return err
	}
	return Credit(ctx, v, a, to, amt)
}

// Burn sends amt to the zero principal, taking it out of circulation.
func Burn(ctx context.Context, v *view.View, a types.Asset, from types.Principal, amt amount.Amount) error {
	return Transfer(ctx, v, a, from, types.ZeroPrincipal, amt)
}
