package memo

import (
	"crypto/ed25519"

	"github.com/code-payments/scaler-program/pkg/solana"
)

// ProgramKey is the address of the memo program.
//
// Current key: MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr
var ProgramKey = ed25519.PublicKey{5, 74, 83, 90, 153, 41, 33, 6, 77, 36, 232, 113, 96, 218, 56, 124, 124, 53, 181, 221, 188, 146, 187, 129, 228, 31, 168, 64, 65, 5, 68, 141}

// Instruction returns a memo instruction. Each signer must sign the
// transaction for the memo to be accepted.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/master/memo/program/src/entrypoint.rs
func Instruction(data string, signers ...ed25519.PublicKey) solana.Instruction {
	accounts := make([]solana.AccountMeta, len(signers))
	for i, signer := range signers {
		accounts[i] = solana.NewReadonlyAccountMeta(signer, true)
	}

	return solana.NewInstruction(
		ProgramKey,
		[]byte(data),
		accounts...,
	)
}

type DecompiledMemo struct {
	Data    []byte
	Signers []ed25519.PublicKey
}

func DecompileMemo(m solana.Message, index int) (*DecompiledMemo, error) {
	i, err := m.CompiledInstruction(index, ProgramKey)
	if err != nil {
		return nil, err
	}

	v := &DecompiledMemo{Data: i.Data}
	for _, account := range i.Accounts {
		v.Signers = append(v.Signers, m.Accounts[account])
	}
	return v, nil
}
