package main

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/code-payments/scaler-program/pkg/solana/scaler"
)

func newAddressCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "address OWNER",
		Short: "Print the result account address derived for OWNER",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := base58.Decode(args[0])
			if err != nil {
				return errors.Wrap(err, "invalid owner")
			}
			if len(owner) != ed25519.PublicKeySize {
				return errors.Errorf("invalid owner length: %d", len(owner))
			}

			address, bump, err := scaler.GetResultAddress(owner)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "address: %s\nbump: %d\n", base58.Encode(address), bump)
			return nil
		},
	}
}
