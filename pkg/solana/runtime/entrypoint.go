package runtime

import (
	"crypto/ed25519"

	"github.com/pkg/errors"
)

// Entrypoint is the calling convention between the host and a program. The
// program id is the address the program was invoked at.
type Entrypoint func(programID ed25519.PublicKey, accounts []*AccountInfo, instructionData []byte) error

// Invoke runs a program, converting a panic into ErrProgramFailedToComplete and
// any untyped error into one the host can report. Outstanding borrows after
// the program returns are an error as well.
func Invoke(entrypoint Entrypoint, programID ed25519.PublicKey, accounts []*AccountInfo, instructionData []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrProgramFailedToComplete, "program panicked: %v", r)
		}
	}()

	if err := entrypoint(programID, accounts, instructionData); err != nil {
		return Normalize(err)
	}

	for _, account := range accounts {
		if account.IsBorrowed() {
			return errors.Wrapf(ErrAccountBorrowOutstanding, "account %s", account)
		}
	}

	return nil
}
