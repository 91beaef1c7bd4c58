package keylet

import (
	"encoding/binary"

	"github.com/LeJamon/goIAZO/internal/core/ledger/entry"
	"github.com/LeJamon/goIAZO/internal/core/types"
	crypto "github.com/LeJamon/goIAZO/internal/crypto/common"
)

// Space identifiers for keylet generation
const (
	spaceSettings   uint16 = 'g' // Governance settings (singleton)
	spaceRegistry   uint16 = 'r' // Registry sequence (singleton)
	spaceRegistryAt uint16 = 'i' // Registry position index
	spaceAsset      uint16 = 'a' // Asset metadata
	spaceBalance    uint16 = 'b' // Holder balance
	spaceSale       uint16 = 's' // Sale info
	spaceStatus     uint16 = 't' // Sale status
	spaceBuyer      uint16 = 'u' // Buyer record
	spaceSettlement uint16 = 'f' // Finalization outcome
	spaceLock       uint16 = 'L' // Liquidity lock
	spaceSaleID     uint16 = 'S' // Sale id derivation
)

// Keylet represents an addressable location in the store.
// It combines a type identifier with a 256-bit key.
type Keylet struct {
	Type entry.Type
	Key  [32]byte
}

// indexHash computes a keylet key by hashing the space and provided data.
func indexHash(space uint16, data ...[]byte) [32]byte {
	spaceBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(spaceBytes, space)

	inputs := make([][]byte, 0, len(data)+1)
	inputs = append(inputs, spaceBytes)
	inputs = append(inputs, data...)

	return crypto.Sha512Half(inputs...)
}

func uint64Bytes(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// Settings returns the keylet for the singleton governance settings.
func Settings() Keylet {
	return Keylet{
		Type: entry.TypeSettings,
		Key:  indexHash(spaceSettings),
	}
}

// RegistryState returns the keylet for the singleton registry counter.
func RegistryState() Keylet {
	return Keylet{
		Type: entry.TypeRegistryState,
		Key:  indexHash(spaceRegistry),
	}
}

// RegistryAt returns the keylet for the sale created at position index.
func RegistryAt(index uint64) Keylet {
	return Keylet{
		Type: entry.TypeRegistryIndex,
		Key:  indexHash(spaceRegistryAt, uint64Bytes(index)),
	}
}

// SaleID derives the identifier of the sale created with the given
// registry sequence by the given creator.
func SaleID(creator types.Principal, sequence uint64) types.SaleID {
	return types.SaleID(indexHash(spaceSaleID, creator[:], uint64Bytes(sequence)))
}

// Asset returns the keylet for an asset's metadata.
func Asset(asset types.Asset) Keylet {
	return Keylet{
		Type: entry.TypeAssetInfo,
		Key:  indexHash(spaceAsset, []byte(asset)),
	}
}

// Balance returns the keylet for holder's balance of asset.
func Balance(holder types.Principal, asset types.Asset) Keylet {
	return Keylet{
		Type: entry.TypeBalance,
		Key:  indexHash(spaceBalance, holder[:], []byte(asset)),
	}
}

// Sale returns the keylet for a sale's immutable info.
func Sale(id types.SaleID) Keylet {
	return Keylet{
		Type: entry.TypeSale,
		Key:  indexHash(spaceSale, id[:]),
	}
}

// Status returns the keylet for a sale's mutable status.
func Status(id types.SaleID) Keylet {
	return Keylet{
		Type: entry.TypeSaleStatus,
		Key:  indexHash(spaceStatus, id[:]),
	}
}

// Buyer returns the keylet for one buyer's record in a sale.
func Buyer(id types.SaleID, buyer types.Principal) Keylet {
	return Keylet{
		Type: entry.TypeBuyer,
		Key:  indexHash(spaceBuyer, id[:], buyer[:]),
	}
}

// Settlement returns the keylet for a sale's finalization outcome.
func Settlement(id types.SaleID) Keylet {
	return Keylet{
		Type: entry.TypeSettlement,
		Key:  indexHash(spaceSettlement, id[:]),
	}
}

// Lock returns the keylet for the liquidity lock created by a sale.
func Lock(id types.SaleID) Keylet {
	return Keylet{
		Type: entry.TypeLock,
		Key:  indexHash(spaceLock, id[:]),
	}
}
