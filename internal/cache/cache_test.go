package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/descry-dev/descry/internal/cache"
)

func TestGetSet(t *testing.T) {
	c, err := cache.NewAt(t.TempDir(), time.Hour)
	require.NoError(t, err)

	_, ok := c.Get("https://pypi.org/pypi/monty/json")
	assert.False(t, ok)

	require.NoError(t, c.Set("https://pypi.org/pypi/monty/json", []byte(`{"info":{}}`)))

	data, ok := c.Get("https://pypi.org/pypi/monty/json")
	require.True(t, ok)
	assert.Equal(t, `{"info":{}}`, string(data))
}

func TestExpiry(t *testing.T) {
	c, err := cache.NewAt(t.TempDir(), time.Nanosecond)
	require.NoError(t, err)

	require.NoError(t, c.Set("key", []byte("value")))
	time.Sleep(10 * time.Millisecond)

	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	c, err := cache.NewAt(t.TempDir(), time.Hour)
	require.NoError(t, err)

	require.NoError(t, c.Set("a", []byte("1")))
	require.NoError(t, c.Set("b", []byte("2")))
	require.NoError(t, c.Clear())

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestKeysDoNotCollide(t *testing.T) {
	c, err := cache.NewAt(t.TempDir(), time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, c.Path("https://pypi.org/pypi/numpy/json"), c.Path("https://pypi.org/pypi/pandas/json"))
}
