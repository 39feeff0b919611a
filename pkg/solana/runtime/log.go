package runtime

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger receives diagnostic messages emitted by a program.
type Logger interface {
	Log(msg string)
}

type logrusLogger struct {
	log *logrus.Entry
}

// NewLogrusLogger returns a Logger that writes program messages at debug level.
func NewLogrusLogger(log *logrus.Entry) Logger {
	return &logrusLogger{log: log}
}

func (l *logrusLogger) Log(msg string) {
	l.log.Debugf("Program log: %s", msg)
}

type noopLogger struct{}

// NoopLogger discards all messages.
var NoopLogger Logger = noopLogger{}

func (noopLogger) Log(_ string) {
}

// RecordingLogger keeps every message in memory. Hosts use it to collect
// transaction logs, and tests use it to assert on diagnostics.
type RecordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

func (l *RecordingLogger) Log(msg string) {
	l.mu.Lock()
	l.messages = append(l.messages, msg)
	l.mu.Unlock()
}

// Messages returns a copy of the recorded messages, in order.
func (l *RecordingLogger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.messages...)
}

func (l *RecordingLogger) Reset() {
	l.mu.Lock()
	l.messages = nil
	l.mu.Unlock()
}

type multiLogger []Logger

// MultiLogger fans each message out to all of the provided loggers.
func MultiLogger(loggers ...Logger) Logger {
	return multiLogger(loggers)
}

func (m multiLogger) Log(msg string) {
	for _, l := range m {
		l.Log(msg)
	}
}
