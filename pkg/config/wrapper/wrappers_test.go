package wrapper

import (
	"context"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/scaler-program/pkg/config"
	"github.com/code-payments/scaler-program/pkg/config/memory"
)

func TestBoolConfig(t *testing.T) {
	defaultValue := true
	overridenValue := false
	mock := memory.NewConfig(nil)
	wrapper := NewBoolConfig(mock, defaultValue)

	// Return the default value when no override is set
	val, err := wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaultValue, val)
	assert.Equal(t, defaultValue, wrapper.Get(context.Background()))

	// The overriden value is returned when set
	mock.SetValue(overridenValue)
	val, err = wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, overridenValue, val)

	// The last observed config value is returned on error
	mock.SetError(errors.New("unavailable"))
	val, err = wrapper.GetSafe(context.Background())
	require.Error(t, err)
	assert.Equal(t, overridenValue, val)
	assert.Equal(t, overridenValue, wrapper.Get(context.Background()))

	// Verify conversion from a byte array
	mock.SetError(nil)
	mock.SetValue([]byte(strconv.FormatBool(defaultValue)))
	val, err = wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaultValue, val)

	// Invalid byte array value
	mock.SetValue([]byte("cannot convert"))
	val, err = wrapper.GetSafe(context.Background())
	require.Error(t, err)
	assert.Equal(t, defaultValue, val)

	// Return an unsupported source value type
	mock.SetValue("not supported")
	val, err = wrapper.GetSafe(context.Background())
	assert.Equal(t, ErrUnsuportedConversion, err)
	assert.Equal(t, defaultValue, val)

	// Shutdown the config via the wrapper
	wrapper.Shutdown()
	_, err = wrapper.GetSafe(context.Background())
	assert.Equal(t, config.ErrShutdown, err)
}

func TestStringConfig(t *testing.T) {
	defaultValue := "wrapping"
	mock := memory.NewConfig(nil)
	wrapper := NewStringConfig(mock, defaultValue)

	assert.Equal(t, defaultValue, wrapper.Get(context.Background()))

	mock.SetValue("checked")
	assert.Equal(t, "checked", wrapper.Get(context.Background()))

	mock.SetValue([]byte("saturating"))
	assert.Equal(t, "saturating", wrapper.Get(context.Background()))

	mock.SetValue(true)
	val, err := wrapper.GetSafe(context.Background())
	assert.Equal(t, ErrUnsuportedConversion, err)
	assert.Equal(t, "saturating", val)

	mock.SetError(errors.New("unavailable"))
	val, err = wrapper.GetSafe(context.Background())
	assert.Error(t, err)
	assert.Equal(t, "saturating", val)
}

func TestNoopConfig(t *testing.T) {
	b := NewBoolConfig(config.NoopConfig, true)
	val, err := b.GetSafe(context.Background())
	require.NoError(t, err)
	assert.True(t, val)

	s := NewStringConfig(config.NoopConfig, "wrapping")
	assert.Equal(t, "wrapping", s.Get(context.Background()))

	s.Shutdown()
	assert.Equal(t, "wrapping", s.Get(context.Background()))
}
