package system

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/code-payments/scaler-program/pkg/solana/runtime"
)

// Custom error codes returned by the system program.
//
// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/program/src/system_instruction.rs#L15
const (
	ErrCodeAccountAlreadyInUse uint32 = iota
	ErrCodeResultWithNegativeLamports
	ErrCodeInvalidProgramID
	ErrCodeInvalidAccountDataLength
)

// Process is the native implementation of the system program, supporting
// CreateAccount and Transfer.
func Process(_ ed25519.PublicKey, accounts []*runtime.AccountInfo, instructionData []byte) error {
	if len(instructionData) < 4 {
		return runtime.ErrInvalidInstructionData
	}

	switch binary.LittleEndian.Uint32(instructionData) {
	case commandCreateAccount:
		return processCreateAccount(accounts, instructionData)
	case commandTransfer:
		return processTransfer(accounts, instructionData)
	default:
		return runtime.ErrInvalidInstructionData
	}
}

func processCreateAccount(accounts []*runtime.AccountInfo, instructionData []byte) error {
	var args DecompiledCreateAccount
	if err := args.unmarshalData(instructionData); err != nil {
		return runtime.ErrInvalidInstructionData.Wrap(err)
	}

	accountIter := runtime.NewAccountIterator(accounts)
	funder, err := runtime.NextAccountInfo(accountIter)
	if err != nil {
		return err
	}
	newAccount, err := runtime.NextAccountInfo(accountIter)
	if err != nil {
		return err
	}

	if !funder.IsSigner || !newAccount.IsSigner {
		return runtime.ErrMissingRequiredSignature
	}

	if newAccount.Lamports > 0 || newAccount.DataLen() > 0 || !bytes.Equal(newAccount.Owner, ProgramKey[:]) {
		return errors.Wrapf(runtime.Custom(ErrCodeAccountAlreadyInUse), "account %s", newAccount)
	}
	if args.Size > runtime.MaxPermittedDataLength {
		return runtime.Custom(ErrCodeInvalidAccountDataLength)
	}
	if funder.Lamports < args.Lamports {
		return errors.Wrapf(runtime.Custom(ErrCodeResultWithNegativeLamports), "account %s", funder)
	}

	if err := newAccount.Realloc(int(args.Size)); err != nil {
		return err
	}
	newAccount.Owner = args.Owner
	funder.Lamports -= args.Lamports
	newAccount.Lamports += args.Lamports

	return nil
}

func processTransfer(accounts []*runtime.AccountInfo, instructionData []byte) error {
	if len(instructionData) != transferDataSize {
		return runtime.ErrInvalidInstructionData
	}
	lamports := binary.LittleEndian.Uint64(instructionData[4:])

	accountIter := runtime.NewAccountIterator(accounts)
	source, err := runtime.NextAccountInfo(accountIter)
	if err != nil {
		return err
	}
	destination, err := runtime.NextAccountInfo(accountIter)
	if err != nil {
		return err
	}

	if !source.IsSigner {
		return runtime.ErrMissingRequiredSignature
	}
	if source.DataLen() > 0 {
		return runtime.ErrInvalidArgument
	}
	if source.Lamports < lamports {
		return errors.Wrapf(runtime.Custom(ErrCodeResultWithNegativeLamports), "account %s", source)
	}

	source.Lamports -= lamports
	destination.Lamports += lamports

	return nil
}
