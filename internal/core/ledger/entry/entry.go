package entry

import (
	"fmt"
)

// Type represents a stored record type
type Type uint16

// All known record types
const (
	// Governance
	TypeSettings      Type = 0x0073 // Governance settings (singleton)
	TypeRegistryState Type = 0x0072 // Registry sequence counter (singleton)
	TypeRegistryIndex Type = 0x0069 // Position -> sale id

	// Asset book
	TypeAssetInfo Type = 0x0061 // Asset metadata (decimals, supply)
	TypeBalance   Type = 0x0062 // Holder balance of one asset

	// Sale records
	TypeSale       Type = 0x0053 // Immutable sale info
	TypeSaleStatus Type = 0x0074 // Mutable sale counters
	TypeBuyer      Type = 0x0075 // Per-buyer deposit record
	TypeSettlement Type = 0x0046 // Finalization outcome

	// Liquidity reserve
	TypeLock Type = 0x004c // Time-locked liquidity receipt
)

// String returns the string representation of the Type
func (t Type) String() string {
	switch t {
	case TypeSettings:
		return "Settings"
	case TypeRegistryState:
		return "RegistryState"
	case TypeRegistryIndex:
		return "RegistryIndex"
	case TypeAssetInfo:
		return "AssetInfo"
	case TypeBalance:
		return "Balance"
	case TypeSale:
		return "Sale"
	case TypeSaleStatus:
		return "SaleStatus"
	case TypeBuyer:
		return "Buyer"
	case TypeSettlement:
		return "Settlement"
	case TypeLock:
		return "Lock"
	default:
		return fmt.Sprintf("Unknown(0x%04x)", uint16(t))
	}
}
