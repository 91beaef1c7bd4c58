package types

import (
	"encoding/hex"
	"fmt"

	"github.com/LeJamon/goIAZO/internal/crypto"
)

// SaleID is the 256-bit identifier assigned to a sale at creation.
type SaleID [32]byte

// ParseSaleID decodes a 64 character hex sale identifier.
func ParseSaleID(s string) (SaleID, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return SaleID{}, fmt.Errorf("invalid sale id: %w", err)
	}
	if len(raw) != len(SaleID{}) {
		return SaleID{}, fmt.Errorf("invalid sale id: want 32 bytes, got %d", len(raw))
	}
	var id SaleID
	copy(id[:], raw)
	return id, nil
}

// Account returns the escrow principal that holds the sale's funds.
func (id SaleID) Account() Principal {
	return Principal(crypto.CalcPrincipalID(append([]byte("sale:"), id[:]...)))
}

func (id SaleID) String() string {
	return hex.EncodeToString(id[:])
}

func (id SaleID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *SaleID) UnmarshalText(text []byte) error {
	parsed, err := ParseSaleID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
