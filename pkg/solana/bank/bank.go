package bank

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/scaler-program/pkg/metrics"
	"github.com/code-payments/scaler-program/pkg/rate"
	"github.com/code-payments/scaler-program/pkg/solana"
	"github.com/code-payments/scaler-program/pkg/solana/memo"
	"github.com/code-payments/scaler-program/pkg/solana/runtime"
	"github.com/code-payments/scaler-program/pkg/solana/system"
	striped "github.com/code-payments/scaler-program/pkg/sync"
)

const (
	metricsStructName = "solana.bank"

	transactionProcessedEventName = "SolanaTransactionProcessed"
	transactionCountMetricName    = "Solana/Bank/TransactionCount"
	transactionFailedMetricName   = "Solana/Bank/FailedTransactionCount"
	transactionDurationMetricName = "Solana/Bank/TransactionDuration"

	defaultLockStripes = 64
)

var (
	ErrAccountNotFound          = errors.New("account not found")
	ErrProgramAlreadyRegistered = errors.New("program already registered")
	ErrInvalidAccount           = errors.New("invalid account")
	ErrRateLimited              = errors.New("fee payer rate limited")
)

// Bank is an in-memory Solana host. It holds account state and executes
// transactions against registered native programs. Transactions are atomic:
// either every instruction succeeds and all account changes are committed, or
// nothing is.
type Bank struct {
	log          *logrus.Entry
	programLog   runtime.Logger
	payerLimiter rate.Limiter

	// Serializes transactions touching the same accounts. accountsMu only
	// guards the map itself.
	locks *striped.StripedLock

	accountsMu sync.RWMutex
	accounts   map[string]*Account

	programsMu sync.RWMutex
	programs   map[string]runtime.Entrypoint
}

// Option configures a Bank.
type Option func(b *Bank)

// WithLogger sets the logger receiving transaction logs, including the
// invoke/success/failed lines the bank emits around each instruction.
func WithLogger(l runtime.Logger) Option {
	return func(b *Bank) {
		b.programLog = l
	}
}

// WithLockStripes sets the number of account lock stripes. Zero keeps the
// default.
func WithLockStripes(stripes uint) Option {
	return func(b *Bank) {
		if stripes == 0 {
			return
		}
		b.locks = striped.NewStripedLock(stripes)
	}
}

// WithPayerRateLimiter limits the transactions each fee payer can submit.
// Limited transactions fail with ErrRateLimited before any instruction runs.
func WithPayerRateLimiter(l rate.Limiter) Option {
	return func(b *Bank) {
		b.payerLimiter = l
	}
}

// New returns an empty Bank with the system and memo programs registered.
func New(opts ...Option) *Bank {
	b := &Bank{
		log:          logrus.StandardLogger().WithField("type", "solana/bank"),
		programLog:   runtime.NoopLogger,
		payerLimiter: &rate.NoLimiter{},
		accounts:     make(map[string]*Account),
		programs:     make(map[string]runtime.Entrypoint),
	}

	for _, o := range opts {
		o(b)
	}

	if b.locks == nil {
		b.locks = striped.NewStripedLock(defaultLockStripes)
	}
	if b.programLog == nil {
		b.programLog = runtime.NoopLogger
	}
	if b.payerLimiter == nil {
		b.payerLimiter = &rate.NoLimiter{}
	}

	if err := b.RegisterProgram(system.ProgramKey[:], system.Process); err != nil {
		panic(err)
	}
	if err := b.RegisterProgram(memo.ProgramKey, memo.NewProcessor(b.programLog).Process); err != nil {
		panic(err)
	}

	return b
}

// RegisterProgram deploys a native program at key. The program's account is
// created as an executable account owned by the native loader.
func (b *Bank) RegisterProgram(key ed25519.PublicKey, entrypoint runtime.Entrypoint) error {
	if len(key) != ed25519.PublicKeySize {
		return errors.Wrapf(ErrInvalidAccount, "invalid program key length: %d", len(key))
	}
	if entrypoint == nil {
		return errors.New("entrypoint is nil")
	}

	b.programsMu.Lock()
	defer b.programsMu.Unlock()

	k := accountKey(key)
	if _, ok := b.programs[k]; ok {
		return errors.Wrapf(ErrProgramAlreadyRegistered, "program %s", k)
	}
	b.programs[k] = entrypoint

	b.accountsMu.Lock()
	b.accounts[k] = &Account{
		Lamports:   1,
		Owner:      NativeLoaderKey,
		Executable: true,
	}
	b.accountsMu.Unlock()

	return nil
}

// SetAccount overwrites the state of the account at key.
func (b *Bank) SetAccount(key ed25519.PublicKey, account Account) error {
	if len(key) != ed25519.PublicKeySize {
		return errors.Wrapf(ErrInvalidAccount, "invalid key length: %d", len(key))
	}
	if len(account.Owner) != ed25519.PublicKeySize {
		return errors.Wrapf(ErrInvalidAccount, "invalid owner length: %d", len(account.Owner))
	}
	if len(account.Data) > runtime.MaxPermittedDataLength {
		return errors.Wrapf(ErrInvalidAccount, "data too large: %d", len(account.Data))
	}

	unlock := b.locks.LockKeys([][]byte{key}, nil)
	defer unlock()

	b.accountsMu.Lock()
	defer b.accountsMu.Unlock()

	k := accountKey(key)
	if account.isEmpty() {
		delete(b.accounts, k)
		return nil
	}
	b.accounts[k] = account.Clone()
	return nil
}

// GetAccount returns a copy of the account at key.
func (b *Bank) GetAccount(key ed25519.PublicKey) (*Account, error) {
	b.accountsMu.RLock()
	defer b.accountsMu.RUnlock()

	account, ok := b.accounts[accountKey(key)]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return account.Clone(), nil
}

// Airdrop credits lamports to the account at key, creating a system owned
// account if none exists.
func (b *Bank) Airdrop(key ed25519.PublicKey, lamports uint64) error {
	if len(key) != ed25519.PublicKeySize {
		return errors.Wrapf(ErrInvalidAccount, "invalid key length: %d", len(key))
	}

	unlock := b.locks.LockKeys([][]byte{key}, nil)
	defer unlock()

	b.accountsMu.Lock()
	defer b.accountsMu.Unlock()

	k := accountKey(key)
	account, ok := b.accounts[k]
	if !ok {
		account = &Account{Owner: append(ed25519.PublicKey(nil), system.ProgramKey[:]...)}
		b.accounts[k] = account
	}

	if account.Lamports+lamports < account.Lamports {
		return errors.Errorf("lamport overflow for account %s", k)
	}
	account.Lamports += lamports
	return nil
}

// ProcessRawTransaction decodes and processes a wire encoded transaction.
func (b *Bank) ProcessRawTransaction(ctx context.Context, raw []byte) error {
	var txn solana.Transaction
	if err := txn.Unmarshal(raw); err != nil {
		b.log.WithError(err).Debug("failed to decode transaction")
		return errors.Wrap(solana.NewTransactionError(solana.TransactionErrorSanitizeFailure), err.Error())
	}

	return b.ProcessTransaction(ctx, txn)
}

// ProcessTransaction verifies and executes txn. A failure is returned as a
// *solana.TransactionError, and leaves every account unchanged.
func (b *Bank) ProcessTransaction(ctx context.Context, txn solana.Transaction) (err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "ProcessTransaction")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	var signature string
	if len(txn.Signatures) > 0 {
		signature = accountKey(txn.Signature())
	}

	log := b.log.WithFields(logrus.Fields{
		"method":    "ProcessTransaction",
		"signature": signature,
	})
	tracer.AddAttributes(map[string]interface{}{
		"signature":    signature,
		"instructions": len(txn.Message.Instructions),
	})

	start := time.Now()
	err = b.processTransaction(log, txn)

	metrics.RecordDuration(ctx, transactionDurationMetricName, time.Since(start))
	metrics.RecordCount(ctx, transactionCountMetricName, 1)
	event := map[string]interface{}{
		"signature":    signature,
		"instructions": len(txn.Message.Instructions),
		"success":      err == nil,
	}

	if err != nil {
		metrics.RecordCount(ctx, transactionFailedMetricName, 1)

		var txnErr *solana.TransactionError
		if errors.As(err, &txnErr) {
			event["error_key"] = string(txnErr.ErrorKey())
			if ixnErr := txnErr.InstructionError(); ixnErr != nil {
				event["instruction_error_key"] = string(ixnErr.ErrorKey())
				event["instruction_index"] = ixnErr.Index
			}
		}

		log.WithError(err).Info("transaction failed")
	}

	metrics.RecordEvent(ctx, transactionProcessedEventName, event)
	return err
}

func (b *Bank) processTransaction(log *logrus.Entry, txn solana.Transaction) error {
	if err := sanitize(txn.Message); err != nil {
		log.WithError(err).Debug("transaction failed sanitization")
		return errors.Wrap(solana.NewTransactionError(solana.TransactionErrorSanitizeFailure), err.Error())
	}

	if err := txn.VerifySignatures(); err != nil {
		return errors.Wrap(solana.NewTransactionError(solana.TransactionErrorSignatureFailure), err.Error())
	}

	m := txn.Message

	allowed, err := b.payerLimiter.Allow(accountKey(m.Accounts[0]))
	if err != nil {
		return errors.Wrap(err, "failed to check fee payer rate limit")
	}
	if !allowed {
		return ErrRateLimited
	}

	entrypoints, err := b.loadPrograms(m)
	if err != nil {
		return err
	}

	var writable, readonly [][]byte
	for i, key := range m.Accounts {
		if m.IsWritable(i) {
			writable = append(writable, key)
		} else {
			readonly = append(readonly, key)
		}
	}

	unlock := b.locks.LockKeys(writable, readonly)
	defer unlock()

	infos, err := b.loadAccounts(m)
	if err != nil {
		return err
	}

	for i, ixn := range m.Instructions {
		programID := m.Accounts[ixn.ProgramIndex]

		accounts := make([]*runtime.AccountInfo, len(ixn.Accounts))
		for j, index := range ixn.Accounts {
			accounts[j] = infos[index]
		}

		if err := b.executeInstruction(entrypoints[i], programID, accounts, ixn.Data); err != nil {
			txnErr, marshalErr := solana.TransactionErrorFromInstructionError(&solana.InstructionError{
				Index: i,
				Err:   err,
			})
			if marshalErr != nil {
				return errors.Wrap(marshalErr, "failed to create transaction error")
			}
			return txnErr
		}
	}

	b.commit(m, infos)
	return nil
}

func (b *Bank) executeInstruction(entrypoint runtime.Entrypoint, programID ed25519.PublicKey, accounts []*runtime.AccountInfo, data []byte) error {
	program := accountKey(programID)
	b.programLog.Log(fmt.Sprintf("Program %s invoke [1]", program))

	pre := snapshot(accounts)

	err := runtime.Invoke(entrypoint, programID, accounts, data)
	if err == nil {
		err = verifyInstruction(programID, pre)
	}

	if err != nil {
		b.programLog.Log(fmt.Sprintf("Program %s failed: %v", program, err))
		return err
	}

	b.programLog.Log(fmt.Sprintf("Program %s success", program))
	return nil
}

func (b *Bank) loadPrograms(m solana.Message) ([]runtime.Entrypoint, error) {
	b.programsMu.RLock()
	defer b.programsMu.RUnlock()

	entrypoints := make([]runtime.Entrypoint, len(m.Instructions))
	for i, ixn := range m.Instructions {
		entrypoint, ok := b.programs[accountKey(m.Accounts[ixn.ProgramIndex])]
		if !ok {
			return nil, solana.NewTransactionError(solana.TransactionErrorProgramAccountNotFound)
		}
		entrypoints[i] = entrypoint
	}

	return entrypoints, nil
}

// loadAccounts builds the working copies of every account in the message.
// Accounts the bank has never seen start out as empty system accounts.
func (b *Bank) loadAccounts(m solana.Message) ([]*runtime.AccountInfo, error) {
	b.accountsMu.RLock()
	defer b.accountsMu.RUnlock()

	if payer, ok := b.accounts[accountKey(m.Accounts[0])]; !ok || payer.Lamports == 0 {
		return nil, solana.NewTransactionError(solana.TransactionErrorAccountNotFound)
	}

	infos := make([]*runtime.AccountInfo, len(m.Accounts))
	for i, key := range m.Accounts {
		account, ok := b.accounts[accountKey(key)]
		if !ok {
			account = &Account{Owner: system.ProgramKey[:]}
		}
		account = account.Clone()

		info := runtime.NewAccountInfo(key, account.Owner, account.Lamports, account.Data)
		info.IsSigner = m.IsSigner(i)
		info.IsWritable = m.IsWritable(i)
		info.Executable = account.Executable
		infos[i] = info
	}

	return infos, nil
}

func (b *Bank) commit(m solana.Message, infos []*runtime.AccountInfo) {
	b.accountsMu.Lock()
	defer b.accountsMu.Unlock()

	for i, info := range infos {
		if !m.IsWritable(i) {
			continue
		}

		account := &Account{
			Lamports:   info.Lamports,
			Data:       info.CopyData(),
			Owner:      append(ed25519.PublicKey(nil), info.Owner...),
			Executable: info.Executable,
		}

		k := accountKey(info.Key)
		if account.isEmpty() {
			delete(b.accounts, k)
			continue
		}
		b.accounts[k] = account
	}
}

// sanitize checks the structural validity of a message that may not have come
// from NewTransaction.
func sanitize(m solana.Message) error {
	if m.Header.NumSignatures == 0 {
		return errors.New("message has no signers")
	}
	if int(m.Header.NumSignatures)+int(m.Header.NumReadOnly) > len(m.Accounts) {
		return errors.New("header references more accounts than present")
	}
	if m.Header.NumReadonlySigned >= m.Header.NumSignatures {
		return errors.New("payer must be writable")
	}

	for i, key := range m.Accounts {
		if len(key) != ed25519.PublicKeySize {
			return errors.Errorf("invalid account key length at %d", i)
		}
		for _, other := range m.Accounts[:i] {
			if bytes.Equal(key, other) {
				return errors.Errorf("account %s loaded twice", accountKey(key))
			}
		}
	}

	for i, ixn := range m.Instructions {
		if ixn.ProgramIndex == 0 || int(ixn.ProgramIndex) >= len(m.Accounts) {
			return errors.Errorf("invalid program index for instruction %d", i)
		}
		for _, index := range ixn.Accounts {
			if int(index) >= len(m.Accounts) {
				return errors.Errorf("invalid account index for instruction %d", i)
			}
		}
	}

	return nil
}
