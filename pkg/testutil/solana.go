package testutil

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"
)

// GenerateSolanaKeypair returns a fresh private key for signing test
// transactions.
func GenerateSolanaKeypair(t *testing.T) ed25519.PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return priv
}

// GenerateSolanaSigner returns a fresh private key along with its account
// address.
func GenerateSolanaSigner(t *testing.T) (ed25519.PrivateKey, ed25519.PublicKey) {
	priv := GenerateSolanaKeypair(t)
	return priv, priv.Public().(ed25519.PublicKey)
}

// GenerateSolanaKeys returns n distinct account addresses with no usable
// private key, for accounts that never sign.
func GenerateSolanaKeys(t *testing.T, n int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, 0, n)
	seen := make(map[string]struct{}, n)
	for len(keys) < n {
		_, pub := GenerateSolanaSigner(t)
		if _, ok := seen[string(pub)]; ok {
			continue
		}
		seen[string(pub)] = struct{}{}
		keys = append(keys, pub)
	}
	return keys
}
