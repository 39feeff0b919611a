package scaler

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/scaler-program/pkg/cache"
	"github.com/code-payments/scaler-program/pkg/solana"
	"github.com/code-payments/scaler-program/pkg/solana/binary"
)

var resultAccountPrefix = []byte("result")

// Deriving an address can take up to 256 hashes, so results are memoized.
var resultAddressCache = cache.NewCache(1024)

type programAddress struct {
	address ed25519.PublicKey
	bump    uint8
}

// GetResultFromAccount reads the stored result from a result account's data.
func GetResultFromAccount(data []byte) (uint64, error) {
	var result uint64
	var offset int
	if err := binary.ReadUint64(data, &result, &offset); err != nil {
		return 0, errors.Wrap(err, "invalid result account data")
	}
	return result, nil
}

// GetResultAddress derives the program address of owner's result account.
//
// The address is a client side convention. Process accepts any writable
// account the program owns, and nothing creates accounts at this address
// without a signed cross program invocation.
func GetResultAddress(owner ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	cacheKey := base58.Encode(owner)
	if cached, ok := resultAddressCache.Retrieve(cacheKey); ok {
		pa := cached.(programAddress)
		return append(ed25519.PublicKey(nil), pa.address...), pa.bump, nil
	}

	address, bump, err := solana.FindProgramAddressAndBump(
		ProgramKey,
		resultAccountPrefix,
		owner,
	)
	if err != nil {
		return nil, 0, err
	}

	// A concurrent caller may have inserted the same derivation
	_ = resultAddressCache.Insert(cacheKey, programAddress{address: address, bump: bump}, 1)

	return address, bump, nil
}
