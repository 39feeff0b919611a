package memory

import (
	"context"
	"sync"

	"github.com/code-payments/scaler-program/pkg/config"
)

// Config is a config.Config whose value is set directly. Tests use it to
// change program settings between invocations.
type Config struct {
	mu       sync.RWMutex
	value    interface{}
	err      error
	reads    int
	shutdown bool
}

// NewConfig returns an in memory config holding value. A nil value means no
// value is set.
func NewConfig(value interface{}) *Config {
	return &Config{value: value}
}

// Get implements config.Config.Get.
func (c *Config) Get(_ context.Context) (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reads++

	switch {
	case c.shutdown:
		return nil, config.ErrShutdown
	case c.err != nil:
		return nil, c.err
	case c.value == nil:
		return nil, config.ErrNoValue
	}
	return c.value, nil
}

// Shutdown implements config.Config.Shutdown.
func (c *Config) Shutdown() {
	c.mu.Lock()
	c.shutdown = true
	c.mu.Unlock()
}

// SetValue replaces the value returned by Get.
func (c *Config) SetValue(value interface{}) {
	c.mu.Lock()
	c.value = value
	c.mu.Unlock()
}

// ClearValue makes Get return config.ErrNoValue.
func (c *Config) ClearValue() {
	c.SetValue(nil)
}

// SetError makes Get fail with err until it is cleared with a nil error.
func (c *Config) SetError(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}

// Reads returns how many times Get has been called.
func (c *Config) Reads() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.reads
}
