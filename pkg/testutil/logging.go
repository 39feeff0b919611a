package testutil

import (
	"io"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func init() {
	logrus.SetLevel(logrus.TraceLevel)

	// Verbose runs keep log output
	for _, arg := range os.Args {
		if arg == "-test.v=true" {
			return
		}
	}
	logrus.StandardLogger().Out = io.Discard
}

func DisableLogging() (reset func()) {
	originalLogOutput := logrus.StandardLogger().Out
	logrus.StandardLogger().Out = io.Discard
	return func() {
		logrus.StandardLogger().Out = originalLogOutput
	}
}

// CaptureLogs records entries written to the standard logger until the test
// completes.
func CaptureLogs(t *testing.T) *test.Hook {
	logger := logrus.StandardLogger()

	hook := test.NewLocal(logger)
	t.Cleanup(func() {
		hooks := make(logrus.LevelHooks)
		for level, registered := range logger.ReplaceHooks(hooks) {
			for _, h := range registered {
				if h != hook {
					hooks[level] = append(hooks[level], h)
				}
			}
		}
	})

	return hook
}
