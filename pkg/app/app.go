package app

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/scaler-program/pkg/metrics"
)

// Env is the initialized process environment.
type Env struct {
	Config BaseConfig

	// MetricsProvider is nil when no New Relic license key is configured.
	MetricsProvider *newrelic.Application
}

// Setup loads the configuration, connects the metrics provider and configures
// the standard logrus logger to write to out.
func Setup(configPath string, out io.Writer) (*Env, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	// todo: Better abstraction so we're not directly tied to NR
	var metricsProvider *newrelic.Application
	if len(config.NewRelicLicenseKey) > 0 {
		metricsProvider, err = newrelic.NewApplication(
			newrelic.ConfigFromEnvironment(),
			newrelic.ConfigAppName(config.AppName),
			newrelic.ConfigLicense(config.NewRelicLicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			return nil, errors.Wrap(err, "error connecting to new relic")
		}
	}

	configureLogger(config, metricsProvider, out)

	return &Env{
		Config:          config,
		MetricsProvider: metricsProvider,
	}, nil
}

// Context returns a copy of ctx carrying the metrics provider.
func (e *Env) Context(ctx context.Context) context.Context {
	return metrics.NewContext(ctx, e.MetricsProvider)
}

// StartTransaction starts a New Relic transaction for a unit of work, returning
// a context carrying both the provider and the transaction. The returned func
// ends the transaction.
func (e *Env) StartTransaction(ctx context.Context, name string) (context.Context, func()) {
	ctx = e.Context(ctx)
	if e.MetricsProvider == nil {
		return ctx, func() {}
	}

	txn := e.MetricsProvider.StartTransaction(name)
	return newrelic.NewContext(ctx, txn), txn.End
}

// Shutdown flushes pending metrics, waiting at most timeout.
func (e *Env) Shutdown(timeout time.Duration) {
	if e.MetricsProvider != nil {
		e.MetricsProvider.Shutdown(timeout)
	}
}

func configureLogger(config BaseConfig, metricsProvider *newrelic.Application, out io.Writer) {
	var formatter logrus.Formatter = &logrus.TextFormatter{}
	if strings.EqualFold(config.LogFormat, "json") {
		formatter = &logrus.JSONFormatter{}
	}

	if metricsProvider != nil {
		formatter = metrics.NewCustomNewRelicLogFormatter(metricsProvider, formatter)
	}
	logrus.SetFormatter(formatter)

	level, err := logrus.ParseLevel(strings.ToLower(config.LogLevel))
	if err != nil {
		logrus.StandardLogger().WithField("log_level", config.LogLevel).Warn("unknown log level, ignoring")
	} else {
		logrus.SetLevel(level)
	}

	logrus.SetOutput(out)
}
