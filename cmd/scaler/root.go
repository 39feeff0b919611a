package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/code-payments/scaler-program/pkg/app"
)

const metricsFlushTimeout = 5 * time.Second

type rootOptions struct {
	configPath string

	env *app.Env
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "scaler",
		Short:         "Run the scaler program against an in-memory bank",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			env, err := app.Setup(opts.configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			opts.env = env
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if opts.env != nil {
				opts.env.Shutdown(metricsFlushTimeout)
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "config.yaml", "configuration file path")

	cmd.AddCommand(
		newRunCommand(opts),
		newAddressCommand(),
	)

	return cmd
}
