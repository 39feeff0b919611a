package testutil

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/scaler-program/pkg/solana"
)

// AssertInstructionError verifies that the provided error is a transaction
// error caused by the instruction at index failing with the provided key.
func AssertInstructionError(t *testing.T, err error, index int, key solana.InstructionErrorKey) {
	require.Error(t, err)

	var txnErr *solana.TransactionError
	require.True(t, errors.As(err, &txnErr), "not a transaction error: %v", err)
	assert.Equal(t, solana.TransactionErrorInstructionError, txnErr.ErrorKey())

	ixnErr := txnErr.InstructionError()
	require.NotNil(t, ixnErr)
	assert.Equal(t, index, ixnErr.Index)
	assert.Equal(t, key, ixnErr.ErrorKey())
}

// AssertTransactionError verifies that the provided error is a transaction
// error with the provided key.
func AssertTransactionError(t *testing.T, err error, key solana.TransactionErrorKey) {
	require.Error(t, err)

	var txnErr *solana.TransactionError
	require.True(t, errors.As(err, &txnErr), "not a transaction error: %v", err)
	assert.Equal(t, key, txnErr.ErrorKey())
}
