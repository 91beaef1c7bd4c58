package crypto

import (
	"errors"

	common "github.com/LeJamon/goIAZO/internal/crypto/common"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// ErrInvalidSeed is returned when a seed hashes to an unusable private key.
var ErrInvalidSeed = errors.New("seed does not produce a valid secp256k1 key")

// Keypair is a secp256k1 key whose compressed public key identifies a principal.
type Keypair struct {
	priv *secp256k1.PrivateKey
}

// KeypairFromSeed deterministically derives a keypair from seed material.
// The private scalar is Sha512Half(seed) reduced modulo the curve order.
func KeypairFromSeed(seed []byte) (*Keypair, error) {
	digest := common.Sha512Half(seed)
	priv := secp256k1.PrivKeyFromBytes(digest[:])
	if priv.Key.IsZero() {
		return nil, ErrInvalidSeed
	}
	return &Keypair{priv: priv}, nil
}

// PublicKey returns the 33-byte compressed public key.
func (k *Keypair) PublicKey() []byte {
	return k.priv.PubKey().SerializeCompressed()
}

// PrincipalID returns the identifier derived from the public key.
func (k *Keypair) PrincipalID() [PrincipalIDSize]byte {
	return CalcPrincipalID(k.PublicKey())
}
