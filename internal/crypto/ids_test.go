package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/decred/dcrd/crypto/ripemd160"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcPrincipalID(t *testing.T) {
	tests := []struct {
		name      string
		publicKey string
		principal string
	}{
		{
			name:      "Ed25519-prefixed public key",
			publicKey: "ED9434799226374926EDA3B54B1B461B4ABF7237962EAE18528FEA67595397FA32",
			principal: "7f58b19358f8e497c8a9ded3e6db3bc23a13c1a5",
		},
		{
			name:      "Secp256k1 public key",
			publicKey: "0330E7FC9D56BB25D6893BA3F317AE5BCF33B3291BD63DB32654A313222F7FD020",
			principal: "b5f762798a53d543a014caf8b297cff8f2f937e8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pubKey, err := hex.DecodeString(tt.publicKey)
			require.NoError(t, err)

			id := CalcPrincipalID(pubKey)

			expected, err := hex.DecodeString(tt.principal)
			require.NoError(t, err)
			assert.Equal(t, expected, id[:])
		})
	}
}

func TestPrincipalIDFromBytes(t *testing.T) {
	t.Run("Valid 20 byte input", func(t *testing.T) {
		input := make([]byte, 20)
		for i := range input {
			input[i] = byte(i)
		}
		result := PrincipalIDFromBytes(input)
		assert.Equal(t, input, result[:])
	})

	t.Run("Wrong length returns zero", func(t *testing.T) {
		result := PrincipalIDFromBytes([]byte{0x01, 0x02, 0x03})
		assert.True(t, IsZeroPrincipalID(result))
	})

	t.Run("Empty input returns zero", func(t *testing.T) {
		assert.True(t, IsZeroPrincipalID(PrincipalIDFromBytes(nil)))
	})
}

func TestKeypairFromSeed(t *testing.T) {
	a1, err := KeypairFromSeed([]byte("alice"))
	require.NoError(t, err)
	a2, err := KeypairFromSeed([]byte("alice"))
	require.NoError(t, err)
	b, err := KeypairFromSeed([]byte("bob"))
	require.NoError(t, err)

	assert.Len(t, a1.PublicKey(), 33)
	assert.Equal(t, a1.PublicKey(), a2.PublicKey())
	assert.Equal(t, a1.PrincipalID(), a2.PrincipalID())
	assert.NotEqual(t, a1.PrincipalID(), b.PrincipalID())

	sum := sha256.Sum256(a1.PublicKey())
	h := ripemd160.New()
	h.Write(sum[:])
	assert.Equal(t, h.Sum(nil), func() []byte { id := a1.PrincipalID(); return id[:] }())
}
