package system

import (
	"crypto/ed25519"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/scaler-program/pkg/solana"
	"github.com/code-payments/scaler-program/pkg/solana/runtime"
	"github.com/code-payments/scaler-program/pkg/testutil"
)

func newSystemAccount(key ed25519.PublicKey, lamports uint64, isSigner bool) *runtime.AccountInfo {
	account := runtime.NewAccountInfo(key, ProgramKey[:], lamports, nil)
	account.IsSigner = isSigner
	account.IsWritable = true
	return account
}

func TestProcess_CreateAccount(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 3)

	funder := newSystemAccount(keys[0], 1000, true)
	newAccount := newSystemAccount(keys[1], 0, true)

	ixn := CreateAccount(keys[0], keys[1], keys[2], 400, 8)
	require.NoError(t, Process(ProgramKey[:], []*runtime.AccountInfo{funder, newAccount}, ixn.Data))

	assert.EqualValues(t, 600, funder.Lamports)
	assert.EqualValues(t, 400, newAccount.Lamports)
	assert.Equal(t, keys[2], newAccount.Owner)
	assert.Equal(t, make([]byte, 8), newAccount.CopyData())

	// The address is now in use
	err := Process(ProgramKey[:], []*runtime.AccountInfo{funder, newAccount}, ixn.Data)
	assert.True(t, errors.Is(err, solana.CustomError(ErrCodeAccountAlreadyInUse)))
}

func TestProcess_CreateAccount_Failures(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 3)

	ixn := CreateAccount(keys[0], keys[1], keys[2], 400, 8)

	err := Process(ProgramKey[:], []*runtime.AccountInfo{newSystemAccount(keys[0], 100, true), newSystemAccount(keys[1], 0, true)}, ixn.Data)
	assert.True(t, errors.Is(err, solana.CustomError(ErrCodeResultWithNegativeLamports)))

	err = Process(ProgramKey[:], []*runtime.AccountInfo{newSystemAccount(keys[0], 1000, true), newSystemAccount(keys[1], 0, false)}, ixn.Data)
	assert.Equal(t, runtime.ErrMissingRequiredSignature, err)

	err = Process(ProgramKey[:], []*runtime.AccountInfo{newSystemAccount(keys[0], 1000, true)}, ixn.Data)
	assert.Equal(t, runtime.ErrNotEnoughAccountKeys, err)

	err = Process(ProgramKey[:], []*runtime.AccountInfo{newSystemAccount(keys[0], 1000, true), newSystemAccount(keys[1], 0, true)}, ixn.Data[:20])
	assert.True(t, errors.Is(err, runtime.ErrInvalidInstructionData))
	assert.EqualError(t, errors.Unwrap(err), "invalid instruction data size: 20")

	tooLarge := CreateAccount(keys[0], keys[1], keys[2], 400, runtime.MaxPermittedDataLength+1)
	err = Process(ProgramKey[:], []*runtime.AccountInfo{newSystemAccount(keys[0], 1000, true), newSystemAccount(keys[1], 0, true)}, tooLarge.Data)
	assert.Equal(t, solana.CustomError(ErrCodeInvalidAccountDataLength), err)
}

func TestProcess_Transfer(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 2)

	source := newSystemAccount(keys[0], 1000, true)
	destination := newSystemAccount(keys[1], 5, false)

	ixn := Transfer(keys[0], keys[1], 250)
	require.NoError(t, Process(ProgramKey[:], []*runtime.AccountInfo{source, destination}, ixn.Data))
	assert.EqualValues(t, 750, source.Lamports)
	assert.EqualValues(t, 255, destination.Lamports)

	ixn = Transfer(keys[0], keys[1], 751)
	err := Process(ProgramKey[:], []*runtime.AccountInfo{source, destination}, ixn.Data)
	assert.True(t, errors.Is(err, solana.CustomError(ErrCodeResultWithNegativeLamports)))

	source.IsSigner = false
	ixn = Transfer(keys[0], keys[1], 1)
	err = Process(ProgramKey[:], []*runtime.AccountInfo{source, destination}, ixn.Data)
	assert.Equal(t, runtime.ErrMissingRequiredSignature, err)
}

func TestProcess_UnsupportedInstruction(t *testing.T) {
	assert.Equal(t, runtime.ErrInvalidInstructionData, Process(ProgramKey[:], nil, []byte{1, 2}))
	assert.Equal(t, runtime.ErrInvalidInstructionData, Process(ProgramKey[:], nil, []byte{8, 0, 0, 0}))
}
