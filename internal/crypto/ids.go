package crypto

import (
	"crypto/sha256"

	"github.com/decred/dcrd/crypto/ripemd160"
)

// PrincipalIDSize is the size of a principal identifier in bytes.
const PrincipalIDSize = 20

// CalcPrincipalID computes RIPEMD160(SHA256(data)). It is used both for
// key-derived principals and for the escrow accounts owned by a sale.
func CalcPrincipalID(data []byte) [PrincipalIDSize]byte {
	sha256Hash := sha256.Sum256(data)

	hasher := ripemd160.New()
	hasher.Write(sha256Hash[:])

	var result [PrincipalIDSize]byte
	copy(result[:], hasher.Sum(nil))
	return result
}

// PrincipalIDFromBytes creates a principal ID from a byte slice.
// Returns the zero ID if the slice is not exactly 20 bytes.
func PrincipalIDFromBytes(b []byte) [PrincipalIDSize]byte {
	var result [PrincipalIDSize]byte
	if len(b) == PrincipalIDSize {
		copy(result[:], b)
	}
	return result
}

// IsZeroPrincipalID returns true if the ID is all zeros.
// The zero principal is the burn address.
func IsZeroPrincipalID(id [PrincipalIDSize]byte) bool {
	for _, b := range id {
		if b != 0 {
			return false
		}
	}
	return true
}
