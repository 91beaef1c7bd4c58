// Package types holds the identifiers shared by every settlement component.
package types

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/LeJamon/goIAZO/internal/crypto"
)

// ErrInvalidPrincipal is returned when a principal string is malformed.
var ErrInvalidPrincipal = errors.New("invalid principal")

// Principal identifies an actor that can hold assets: a buyer, a seller,
// the admin, the fee address or a sale's own escrow account.
type Principal [crypto.PrincipalIDSize]byte

// ZeroPrincipal is the burn address.
var ZeroPrincipal Principal

// PrincipalFromPublicKey derives a principal from a serialized public key.
func PrincipalFromPublicKey(pub []byte) Principal {
	return Principal(crypto.CalcPrincipalID(pub))
}

// ParsePrincipal decodes a 40 character hex principal, with or without 0x.
func ParsePrincipal(s string) (Principal, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidPrincipal, err)
	}
	if len(raw) != crypto.PrincipalIDSize {
		return Principal{}, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidPrincipal, crypto.PrincipalIDSize, len(raw))
	}
	return Principal(crypto.PrincipalIDFromBytes(raw)), nil
}

// IsZero reports whether p is the burn address.
func (p Principal) IsZero() bool {
	return crypto.IsZeroPrincipalID(p)
}

func (p Principal) String() string {
	return hex.EncodeToString(p[:])
}

func (p Principal) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Principal) UnmarshalText(text []byte) error {
	parsed, err := ParsePrincipal(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
