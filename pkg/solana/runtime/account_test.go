package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/scaler-program/pkg/testutil"
)

func TestAccountInfo_BorrowMutData(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 2)
	hostBuffer := make([]byte, 8)
	account := NewAccountInfo(keys[0], keys[1], 100, hostBuffer)
	assert.Equal(t, 8, account.DataLen())

	data, release, err := account.BorrowMutData()
	require.NoError(t, err)
	assert.True(t, account.IsBorrowed())

	_, _, err = account.BorrowMutData()
	assert.Equal(t, ErrAccountBorrowFailed, err)
	_, _, err = account.BorrowData()
	assert.Equal(t, ErrAccountBorrowFailed, err)

	data[0] = 0xff
	release()
	release()
	assert.False(t, account.IsBorrowed())

	// Writes land directly in the host's buffer
	assert.EqualValues(t, 0xff, hostBuffer[0])

	_, release, err = account.BorrowMutData()
	require.NoError(t, err)
	release()
}

func TestAccountInfo_BorrowData(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 2)
	account := NewAccountInfo(keys[0], keys[1], 0, []byte{1, 2, 3})

	first, releaseFirst, err := account.BorrowData()
	require.NoError(t, err)
	second, releaseSecond, err := account.BorrowData()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, _, err = account.BorrowMutData()
	assert.Equal(t, ErrAccountBorrowFailed, err)

	releaseFirst()
	_, _, err = account.BorrowMutData()
	assert.Equal(t, ErrAccountBorrowFailed, err)

	releaseSecond()
	_, release, err := account.BorrowMutData()
	require.NoError(t, err)
	release()
}

func TestNextAccountInfo(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 3)
	accounts := []*AccountInfo{
		NewAccountInfo(keys[0], keys[2], 0, nil),
		NewAccountInfo(keys[1], keys[2], 0, nil),
	}

	iter := NewAccountIterator(accounts)

	actual, err := NextAccountInfo(iter)
	require.NoError(t, err)
	assert.Equal(t, accounts[0], actual)

	actual, err = NextAccountInfo(iter)
	require.NoError(t, err)
	assert.Equal(t, accounts[1], actual)

	_, err = NextAccountInfo(iter)
	assert.Equal(t, ErrNotEnoughAccountKeys, err)

	_, err = NextAccountInfo(NewAccountIterator(nil))
	assert.Equal(t, ErrNotEnoughAccountKeys, err)
}

func TestAccountInfo_Realloc(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 2)
	account := NewAccountInfo(keys[0], keys[1], 0, []byte{1, 2, 3})

	require.NoError(t, account.Realloc(5))
	assert.Equal(t, []byte{1, 2, 3, 0, 0}, account.CopyData())

	require.NoError(t, account.Realloc(2))
	assert.Equal(t, []byte{1, 2}, account.CopyData())

	// Shrinking and growing again doesn't resurrect old bytes
	require.NoError(t, account.Realloc(3))
	assert.Equal(t, []byte{1, 2, 0}, account.CopyData())

	assert.Equal(t, ErrInvalidRealloc, account.Realloc(-1))
	assert.Equal(t, ErrInvalidRealloc, account.Realloc(MaxPermittedDataLength+1))

	_, release, err := account.BorrowData()
	require.NoError(t, err)
	assert.Equal(t, ErrAccountBorrowFailed, account.Realloc(8))
	release()

	copied := account.CopyData()
	copied[0] = 9
	assert.Equal(t, []byte{1, 2, 0}, account.CopyData())
}
