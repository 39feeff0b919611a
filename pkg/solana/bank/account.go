package bank

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
)

// NativeLoaderKey owns the accounts of programs registered with the bank.
//
// https://explorer.solana.com/address/NativeLoader1111111111111111111111111111111
var NativeLoaderKey = mustDecodeKey("NativeLoader1111111111111111111111111111111")

// Account is the state of an account held by the bank.
type Account struct {
	Lamports   uint64
	Data       []byte
	Owner      ed25519.PublicKey
	Executable bool
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	return &Account{
		Lamports:   a.Lamports,
		Data:       append([]byte(nil), a.Data...),
		Owner:      append(ed25519.PublicKey(nil), a.Owner...),
		Executable: a.Executable,
	}
}

func (a *Account) isEmpty() bool {
	return a.Lamports == 0 && len(a.Data) == 0 && !a.Executable
}

func accountKey(key ed25519.PublicKey) string {
	return base58.Encode(key)
}

func mustDecodeKey(s string) ed25519.PublicKey {
	b, err := base58.Decode(s)
	if err != nil || len(b) != ed25519.PublicKeySize {
		panic("invalid key: " + s)
	}
	return b
}
