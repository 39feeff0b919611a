package runtime

import (
	"github.com/pkg/errors"

	"github.com/code-payments/scaler-program/pkg/solana"
)

// ProgramError is a builtin error a program can return to the runtime. Custom
// program errors are represented with solana.CustomError instead.
type ProgramError struct {
	key solana.InstructionErrorKey
}

func (e *ProgramError) Error() string {
	return string(e.key)
}

// ErrorKey returns the instruction error key reported to the host.
func (e *ProgramError) ErrorKey() solana.InstructionErrorKey {
	return e.key
}

// Wrap annotates cause with e. The result reports e's key to the host, and
// both e and cause remain reachable through errors.Is and errors.As.
func (e *ProgramError) Wrap(cause error) error {
	if cause == nil {
		return e
	}
	return &causedProgramError{err: e, cause: cause}
}

type causedProgramError struct {
	err   *ProgramError
	cause error
}

func (c *causedProgramError) Error() string {
	return c.err.Error() + ": " + c.cause.Error()
}

func (c *causedProgramError) ErrorKey() solana.InstructionErrorKey {
	return c.err.key
}

func (c *causedProgramError) Unwrap() error {
	return c.cause
}

func (c *causedProgramError) Is(target error) bool {
	return target == error(c.err)
}

func (c *causedProgramError) As(target interface{}) bool {
	if programErr, ok := target.(**ProgramError); ok {
		*programErr = c.err
		return true
	}
	return false
}

var (
	ErrGenericError                = &ProgramError{solana.InstructionErrorGenericError}
	ErrInvalidArgument             = &ProgramError{solana.InstructionErrorInvalidArgument}
	ErrInvalidInstructionData      = &ProgramError{solana.InstructionErrorInvalidInstructionData}
	ErrInvalidAccountData          = &ProgramError{solana.InstructionErrorInvalidAccountData}
	ErrAccountDataTooSmall         = &ProgramError{solana.InstructionErrorAccountDataTooSmall}
	ErrInsufficientFunds           = &ProgramError{solana.InstructionErrorInsufficientFunds}
	ErrIncorrectProgramID          = &ProgramError{solana.InstructionErrorIncorrectProgramID}
	ErrMissingRequiredSignature    = &ProgramError{solana.InstructionErrorMissingRequiredSignature}
	ErrAccountAlreadyInitialized   = &ProgramError{solana.InstructionErrorAccountAlreadyInitialized}
	ErrExternalAccountDataModified = &ProgramError{solana.InstructionErrorExternalAccountDataModified}
	ErrReadonlyDataModified        = &ProgramError{solana.InstructionErrorReadonlyDataModified}
	ErrNotEnoughAccountKeys        = &ProgramError{solana.InstructionErrorNotEnoughAccountKeys}
	ErrAccountDataSizeChanged      = &ProgramError{solana.InstructionErrorAccountDataSizeChanged}
	ErrAccountBorrowFailed         = &ProgramError{solana.InstructionErrorAccountBorrowFailed}
	ErrAccountBorrowOutstanding    = &ProgramError{solana.InstructionErrorAccountBorrowOutstanding}
	ErrUnsupportedProgramID        = &ProgramError{solana.InstructionErrorUnsupportedProgramID}
	ErrProgramFailedToComplete     = &ProgramError{solana.InstructionErrorProgramFailedToComplete}
	ErrArithmeticOverflow          = &ProgramError{solana.InstructionErrorArithmeticOverflow}
	ErrInvalidRealloc              = &ProgramError{solana.InstructionErrorInvalidRealloc}
	ErrReadonlyLamportChange       = &ProgramError{solana.InstructionErrorReadonlyLamportChange}
	ErrExternalAccountLamportSpend = &ProgramError{solana.InstructionErrorExternalAccountLamportSpend}
	ErrModifiedProgramID           = &ProgramError{solana.InstructionErrorModifiedProgramID}
	ErrUnbalancedInstruction       = &ProgramError{solana.InstructionErrorUnbalancedInstruction}

	// ErrInvalidInput is what a program returns for an instruction payload it
	// can't interpret.
	ErrInvalidInput = ErrInvalidInstructionData
)

// Custom returns a program specific error code.
func Custom(code uint32) error {
	return solana.CustomError(code)
}

// Normalize maps err onto something the host can report: builtin program
// errors and custom errors pass through, anything else becomes a GenericError
// wrapping the original error.
func Normalize(err error) error {
	if err == nil {
		return nil
	}

	var programErr *ProgramError
	if errors.As(err, &programErr) {
		return err
	}

	var customErr solana.CustomError
	if errors.As(err, &customErr) {
		return err
	}

	return ErrGenericError.Wrap(err)
}
