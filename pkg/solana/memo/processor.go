package memo

import (
	"crypto/ed25519"
	"fmt"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/code-payments/scaler-program/pkg/solana/runtime"
)

// Processor is the native implementation of the memo program. Accepted memos
// are written to the provided logger.
type Processor struct {
	log runtime.Logger
}

func NewProcessor(log runtime.Logger) *Processor {
	if log == nil {
		log = runtime.NoopLogger
	}
	return &Processor{log: log}
}

// Process implements runtime.Entrypoint. The memo must be valid UTF-8, and every
// account passed to the instruction must be a signer.
func (p *Processor) Process(_ ed25519.PublicKey, accounts []*runtime.AccountInfo, instructionData []byte) error {
	for _, account := range accounts {
		if !account.IsSigner {
			return errors.Wrapf(runtime.ErrMissingRequiredSignature, "account %s", account)
		}
		p.log.Log(fmt.Sprintf("Signed by %s", account))
	}

	if !utf8.Valid(instructionData) {
		p.log.Log("Invalid UTF-8")
		return runtime.ErrInvalidInstructionData
	}

	p.log.Log(fmt.Sprintf("Memo (len %d): %q", len(instructionData), string(instructionData)))
	return nil
}
