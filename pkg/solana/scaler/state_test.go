package scaler

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/scaler-program/pkg/solana"
	"github.com/code-payments/scaler-program/pkg/solana/runtime"
	"github.com/code-payments/scaler-program/pkg/testutil"
)

func TestGetResultFromAccount(t *testing.T) {
	result, err := GetResultFromAccount([]byte{0x00, 0xca, 0x9a, 0x3b, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.EqualValues(t, 1_000_000_000, result)

	_, err = GetResultFromAccount([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestGetResultAddress(t *testing.T) {
	owners := testutil.GenerateSolanaKeys(t, 2)

	first, bump, err := GetResultAddress(owners[0])
	require.NoError(t, err)
	assert.Len(t, first, 32)

	recreated, err := solana.CreateProgramAddress(ProgramKey, []byte("result"), owners[0], []byte{bump})
	require.NoError(t, err)
	assert.EqualValues(t, first, recreated)

	again, _, err := GetResultAddress(owners[0])
	require.NoError(t, err)
	assert.EqualValues(t, first, again)

	second, _, err := GetResultAddress(owners[1])
	require.NoError(t, err)
	assert.False(t, bytes.Equal(first, second))

	// Callers cannot corrupt the memoized address
	again[0] ^= 0xff
	third, thirdBump, err := GetResultAddress(owners[0])
	require.NoError(t, err)
	assert.EqualValues(t, first, third)
	assert.Equal(t, bump, thirdBump)
}

func TestGetResultAddress_NotRequiredByProcess(t *testing.T) {
	env := setup(t)

	owner := testutil.GenerateSolanaKeys(t, 1)[0]
	derived, _, err := GetResultAddress(owner)
	require.NoError(t, err)

	// Any writable account the program owns can hold the result
	account, data := env.newResultAccount(t, ResultAccountSize)
	require.False(t, bytes.Equal(derived, account.Key))
	require.NoError(t, env.program.Process(ProgramKey, []*runtime.AccountInfo{account}, encodeAmount(4)))

	result, err := GetResultFromAccount(data)
	require.NoError(t, err)
	assert.EqualValues(t, 4_000_000, result)
}
