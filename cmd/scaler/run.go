package main

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"strconv"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/code-payments/scaler-program/pkg/solana"
	"github.com/code-payments/scaler-program/pkg/solana/bank"
	"github.com/code-payments/scaler-program/pkg/solana/memo"
	"github.com/code-payments/scaler-program/pkg/solana/runtime"
	"github.com/code-payments/scaler-program/pkg/solana/scaler"
	"github.com/code-payments/scaler-program/pkg/solana/system"
)

const (
	payerLamports       = 1_000_000_000
	dataAccountLamports = 1_000_000
)

func newRunCommand(root *rootOptions) *cobra.Command {
	var mode, memoText string

	cmd := &cobra.Command{
		Use:   "run AMOUNT",
		Short: "Scale AMOUNT and print the value stored in the data account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return errors.Wrapf(err, "invalid amount %q", args[0])
			}

			configProvider := scaler.WithEnvConfigs()
			if cmd.Flags().Changed("mode") {
				parsed, err := scaler.ParseArithmeticMode(mode)
				if err != nil {
					return err
				}
				configProvider = scaler.WithArithmeticMode(parsed)
			}

			ctx, end := root.env.StartTransaction(cmd.Context(), "scaler run")
			defer end()

			res, err := runScale(ctx, amount, memoText, configProvider)
			if res != nil {
				for _, msg := range res.logs {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\n", msg)
				}
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "data account: %s\nresult: %d\n", base58.Encode(res.dataAccount), res.result)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", scaler.ArithmeticModeWrapping.String(), "arithmetic mode: wrapping, checked or saturating")
	cmd.Flags().StringVar(&memoText, "memo", "", "memo signed by the payer and attached to the scale transaction")

	return cmd
}

type scaleResult struct {
	dataAccount ed25519.PublicKey
	result      uint64
	logs        []string
}

// runScale funds a payer, creates a data account owned by the scaler program
// and scales amount into it, in the same way a client would against a
// cluster. A non-empty memo is prepended to the scale transaction.
func runScale(ctx context.Context, amount uint64, memoText string, configProvider scaler.ConfigProvider) (*scaleResult, error) {
	log := logrus.StandardLogger().WithField("type", "cmd/scaler")

	logs := runtime.NewRecordingLogger()
	programLog := runtime.MultiLogger(logs, runtime.NewLogrusLogger(log))

	b := bank.New(bank.WithLogger(programLog))
	program := scaler.NewProgram(programLog, configProvider)
	if err := b.RegisterProgram(scaler.ProgramKey, program.Process); err != nil {
		return nil, err
	}

	_, payer, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate payer")
	}
	_, dataAccount, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate data account")
	}
	payerKey := payer.Public().(ed25519.PublicKey)
	dataKey := dataAccount.Public().(ed25519.PublicKey)

	if err := b.Airdrop(payerKey, payerLamports); err != nil {
		return nil, err
	}

	createTxn := solana.NewTransaction(
		payerKey,
		system.CreateAccount(payerKey, dataKey, scaler.ProgramKey, dataAccountLamports, scaler.ResultAccountSize),
	)
	if err := createTxn.Sign(payer, dataAccount); err != nil {
		return nil, err
	}
	if err := b.ProcessTransaction(ctx, createTxn); err != nil {
		return nil, errors.Wrap(err, "failed to create data account")
	}

	res := &scaleResult{dataAccount: dataKey}

	var instructions []solana.Instruction
	if memoText != "" {
		instructions = append(instructions, memo.Instruction(memoText, payerKey))
	}
	instructions = append(instructions, scaler.Instruction(dataKey, amount))

	scaleTxn := solana.NewTransaction(payerKey, instructions...)
	if err := scaleTxn.Sign(payer); err != nil {
		return nil, err
	}

	// Only the scale transaction's logs are reported
	logs.Reset()
	err = b.ProcessRawTransaction(ctx, scaleTxn.Marshal())
	res.logs = logs.Messages()
	if err != nil {
		return res, err
	}

	account, err := b.GetAccount(dataKey)
	if err != nil {
		return res, err
	}
	if res.result, err = scaler.GetResultFromAccount(account.Data); err != nil {
		return res, err
	}

	log.WithFields(logrus.Fields{
		"amount": amount,
		"result": res.result,
	}).Debug("scaled amount")

	return res, nil
}
