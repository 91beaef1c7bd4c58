package keylet

import (
	"testing"

	"github.com/LeJamon/goIAZO/internal/core/ledger/entry"
	"github.com/LeJamon/goIAZO/internal/core/types"
	"github.com/stretchr/testify/assert"
)

func TestKeyletsAreDistinct(t *testing.T) {
	id := types.SaleID{7}
	buyer := types.Principal{9}

	keys := []Keylet{
		Settings(),
		RegistryState(),
		RegistryAt(0),
		RegistryAt(1),
		Asset(types.NativeAsset),
		Balance(buyer, types.NativeAsset),
		Balance(buyer, "TKN"),
		Sale(id),
		Status(id),
		Buyer(id, buyer),
		Settlement(id),
		Lock(id),
	}

	seen := make(map[[32]byte]entry.Type)
	for _, k := range keys {
		if prev, dup := seen[k.Key]; dup {
			t.Fatalf("key collision between %s and %s", prev, k.Type)
		}
		seen[k.Key] = k.Type
	}
}

func TestKeyletsAreDeterministic(t *testing.T) {
	id := types.SaleID{1, 2, 3}
	assert.Equal(t, Sale(id), Sale(id))
	assert.Equal(t, entry.TypeSale, Sale(id).Type)
	assert.Equal(t, "Buyer", Buyer(id, types.Principal{}).Type.String())
}

func TestSaleIDDependsOnCreatorAndSequence(t *testing.T) {
	alice := types.Principal{1}
	bob := types.Principal{2}

	assert.Equal(t, SaleID(alice, 0), SaleID(alice, 0))
	assert.NotEqual(t, SaleID(alice, 0), SaleID(alice, 1))
	assert.NotEqual(t, SaleID(alice, 0), SaleID(bob, 0))
}
