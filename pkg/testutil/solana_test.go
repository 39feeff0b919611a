package testutil

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSolanaSigner(t *testing.T) {
	priv, pub := GenerateSolanaSigner(t)
	require.Len(t, pub, ed25519.PublicKeySize)

	sig := ed25519.Sign(priv, []byte("message"))
	assert.True(t, ed25519.Verify(pub, []byte("message"), sig))
}

func TestGenerateSolanaKeys(t *testing.T) {
	keys := GenerateSolanaKeys(t, 16)
	require.Len(t, keys, 16)

	seen := make(map[string]struct{})
	for _, key := range keys {
		assert.Len(t, key, ed25519.PublicKeySize)
		seen[string(key)] = struct{}{}
	}
	assert.Len(t, seen, 16)

	assert.Empty(t, GenerateSolanaKeys(t, 0))
}
