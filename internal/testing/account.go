package testing

import (
	"fmt"

	"github.com/LeJamon/goIAZO/internal/core/types"
	"github.com/LeJamon/goIAZO/internal/crypto"
)

// Account represents a test principal with a deterministic keypair.
type Account struct {
	// Name is a human-readable identifier for the account (used for debugging).
	Name string

	Keypair *crypto.Keypair

	// ID is the principal derived from the public key.
	ID types.Principal
}

// NewAccount creates a test account whose keypair is derived from the name.
// Using the same name will always produce the same account.
func NewAccount(name string) *Account {
	kp, err := crypto.KeypairFromSeed([]byte(name))
	if err != nil {
		panic("failed to derive keypair for account " + name + ": " + err.Error())
	}
	return &Account{
		Name:    name,
		Keypair: kp,
		ID:      types.PrincipalFromPublicKey(kp.PublicKey()),
	}
}

// AdminAccount is the governance admin every Env bootstraps with.
func AdminAccount() *Account {
	return NewAccount("admin")
}

// FeeAccount is the fee address every Env bootstraps with.
func FeeAccount() *Account {
	return NewAccount("fees")
}

func (a *Account) String() string {
	return fmt.Sprintf("%s(%s)", a.Name, a.ID)
}
