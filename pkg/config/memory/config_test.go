package memory

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/scaler-program/pkg/config"
)

func TestConfig(t *testing.T) {
	ctx := context.Background()

	c := NewConfig(nil)
	_, err := c.Get(ctx)
	assert.Equal(t, config.ErrNoValue, err)

	c.SetValue("checked")
	val, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "checked", val)

	c.ClearValue()
	_, err = c.Get(ctx)
	assert.Equal(t, config.ErrNoValue, err)

	induced := errors.New("unavailable")
	c.SetValue(true)
	c.SetError(induced)
	_, err = c.Get(ctx)
	assert.Equal(t, induced, err)

	c.SetError(nil)
	val, err = c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, true, val)

	assert.Equal(t, 5, c.Reads())

	c.Shutdown()
	_, err = c.Get(ctx)
	assert.Equal(t, config.ErrShutdown, err)
}
