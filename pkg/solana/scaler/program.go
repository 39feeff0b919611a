package scaler

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/scaler-program/pkg/solana"
	"github.com/code-payments/scaler-program/pkg/solana/binary"
	"github.com/code-payments/scaler-program/pkg/solana/runtime"
)

// ProgramKey is the address the scaler program is deployed at.
//
// Current key: HvXf4u5NnzR3eQjkXtThm7sAxvP6JMkN4KBm8HS6h5Ed
var ProgramKey = ed25519.PublicKey{251, 113, 111, 218, 109, 197, 127, 109, 78, 152, 159, 181, 227, 14, 130, 41, 94, 251, 79, 86, 133, 139, 236, 184, 245, 82, 166, 77, 123, 64, 25, 86}

const (
	// AmountSize is the size of the instruction payload that is read.
	AmountSize = 8

	// ResultAccountSize is the minimum data size of the account the result is
	// written to.
	ResultAccountSize = 8
)

// Program multiplies the amount in the instruction payload by Factor and stores
// the product in the first account's data.
type Program struct {
	log         *logrus.Entry
	diagnostics runtime.Logger
	conf        *conf
}

// NewProgram returns a Program that emits diagnostics to the provided logger.
func NewProgram(diagnostics runtime.Logger, configProvider ConfigProvider) *Program {
	if diagnostics == nil {
		diagnostics = runtime.NoopLogger
	}

	return &Program{
		log:         logrus.StandardLogger().WithField("type", "solana/scaler"),
		diagnostics: diagnostics,
		conf:        configProvider(),
	}
}

// Process implements runtime.Entrypoint.
//
// # Account references
//  0. [WRITE] Result account, at least ResultAccountSize bytes
//
// # Instruction data
//
//	amount: u64 (little endian)
func (p *Program) Process(_ ed25519.PublicKey, accounts []*runtime.AccountInfo, instructionData []byte) error {
	ctx := context.Background()

	if len(instructionData) == 0 {
		return runtime.ErrInvalidInput
	}

	var amount uint64
	var offset int
	if err := binary.ReadUint64(instructionData, &amount, &offset); err != nil {
		return runtime.ErrInvalidInstructionData.Wrap(err)
	}

	mode, err := p.arithmeticMode(ctx)
	if err != nil {
		return err
	}

	result, err := Scale(amount, mode)
	if err != nil {
		p.emit(ctx, fmt.Sprintf("Input amount: %d, Calculation overflowed", amount))
		return err
	}

	p.emit(ctx, fmt.Sprintf("Input amount: %d, Calculated result: %d", amount, result))

	accountIter := runtime.NewAccountIterator(accounts)
	resultAccount, err := runtime.NextAccountInfo(accountIter)
	if err != nil {
		return err
	}

	data, release, err := resultAccount.BorrowMutData()
	if err != nil {
		return errors.Wrapf(err, "account %s", resultAccount)
	}
	defer release()

	offset = 0
	if err := binary.WriteUint64(data, result, &offset); err != nil {
		return runtime.ErrAccountDataTooSmall.Wrap(err)
	}

	return nil
}

func (p *Program) arithmeticMode(ctx context.Context) (ArithmeticMode, error) {
	mode, err := ParseArithmeticMode(p.conf.arithmeticMode.Get(ctx))
	if err != nil {
		p.log.WithError(err).Warn("invalid arithmetic mode configured")
		return 0, runtime.ErrGenericError.Wrap(err)
	}
	return mode, nil
}

func (p *Program) emit(ctx context.Context, msg string) {
	if p.conf.disableDiagnostics.Get(ctx) {
		return
	}
	p.diagnostics.Log(msg)
}

// Instruction returns an instruction that scales amount and stores the result
// in dataAccount.
func Instruction(dataAccount ed25519.PublicKey, amount uint64) solana.Instruction {
	data := make([]byte, AmountSize)

	var offset int
	binary.PutUint64(data, amount, &offset)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(dataAccount, false),
	)
}

type DecompiledScale struct {
	DataAccount ed25519.PublicKey
	Amount      uint64
}

func DecompileScale(m solana.Message, index int) (*DecompiledScale, error) {
	i, err := m.CompiledInstruction(index, ProgramKey)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) < 1 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) < AmountSize {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	v := &DecompiledScale{
		DataAccount: m.Accounts[i.Accounts[0]],
	}

	var offset int
	binary.GetUint64(i.Data, &v.Amount, &offset)

	return v, nil
}
