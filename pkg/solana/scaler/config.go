package scaler

import (
	"github.com/code-payments/scaler-program/pkg/config"
	"github.com/code-payments/scaler-program/pkg/config/env"
	"github.com/code-payments/scaler-program/pkg/config/memory"
	"github.com/code-payments/scaler-program/pkg/config/wrapper"
)

const (
	envConfigPrefix = "SCALER_"

	ArithmeticModeConfigEnvName = envConfigPrefix + "ARITHMETIC_MODE"
	defaultArithmeticMode       = "wrapping"

	DisableDiagnosticsConfigEnvName = envConfigPrefix + "DISABLE_DIAGNOSTICS"
	defaultDisableDiagnostics       = false
)

type conf struct {
	arithmeticMode     config.String
	disableDiagnostics config.Bool
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			arithmeticMode:     env.NewStringConfig(ArithmeticModeConfigEnvName, defaultArithmeticMode),
			disableDiagnostics: env.NewBoolConfig(DisableDiagnosticsConfigEnvName, defaultDisableDiagnostics),
		}
	}
}

// WithArithmeticMode returns a static configuration that always uses the
// provided mode, with diagnostics enabled.
func WithArithmeticMode(mode ArithmeticMode) ConfigProvider {
	return func() *conf {
		return &conf{
			arithmeticMode:     wrapper.NewStringConfig(memory.NewConfig(mode.String()), defaultArithmeticMode),
			disableDiagnostics: wrapper.NewBoolConfig(config.NoopConfig, defaultDisableDiagnostics),
		}
	}
}
