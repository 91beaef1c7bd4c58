package types

import (
	"errors"
	"fmt"
)

// ErrInvalidAsset is returned for empty or oversized asset codes.
var ErrInvalidAsset = errors.New("invalid asset")

// MaxAssetCodeLength bounds the length of an asset code.
const MaxAssetCodeLength = 32

// Asset names a fungible asset tracked by the balance book.
type Asset string

// NativeAsset is the chain's native asset. Creation fees are paid in it.
const NativeAsset Asset = "NATIVE"

// Validate checks that the asset code is usable as a key component.
func (a Asset) Validate() error {
	if len(a) == 0 || len(a) > MaxAssetCodeLength {
		return fmt.Errorf("%w: %q", ErrInvalidAsset, string(a))
	}
	return nil
}

func (a Asset) String() string {
	return string(a)
}
