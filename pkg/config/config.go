package config

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// ErrNoValue indicates no value was set for the config
	ErrNoValue = errors.New("config: no value set")

	// ErrShutdown indicates the use of a Config after calling Shutdown
	ErrShutdown = errors.New("config: shutdown")
)

// Config is a source of raw configuration values. Sources return ErrNoValue
// when nothing is set, letting typed wrappers fall back to a default.
type Config interface {
	// Get returns the latest config value
	Get(ctx context.Context) (interface{}, error)

	// Shutdown signals the config to stop all underlying resources
	Shutdown()
}

// NoopConfig never yields a value, so typed wrappers over it always return
// their default.
var NoopConfig Config = noopConfig{}

type noopConfig struct{}

func (noopConfig) Get(_ context.Context) (interface{}, error) {
	return nil, ErrNoValue
}

func (noopConfig) Shutdown() {}

// Typed reads a Config and converts its values to T.
type Typed[T any] interface {
	// Get returns the latest value, or the last good one if the source fails.
	Get(ctx context.Context) T

	// GetSafe is Get with the source or conversion error surfaced.
	GetSafe(ctx context.Context) (T, error)

	Shutdown()
}

type (
	Bool   = Typed[bool]
	String = Typed[string]
)
