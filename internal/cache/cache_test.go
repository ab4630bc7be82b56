package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestHashIsDeterministicAndSensitiveToInput(t *testing.T) {
	a := Hash([]byte("hello"))
	b := Hash([]byte("hello"))
	c := Hash([]byte("hello!"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestUnchangedReportsFalseForUnseenKey(t *testing.T) {
	c := openTestCache(t)
	unchanged, err := c.Unchanged("missing", []byte("data"))
	require.NoError(t, err)
	assert.False(t, unchanged)
}

func TestRecordThenUnchanged(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.Record("k", []byte("v1")))

	unchanged, err := c.Unchanged("k", []byte("v1"))
	require.NoError(t, err)
	assert.True(t, unchanged)

	unchanged, err = c.Unchanged("k", []byte("v2"))
	require.NoError(t, err)
	assert.False(t, unchanged)
}

func TestMethodsFailAfterClose(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, err = c.Unchanged("k", []byte("v"))
	assert.ErrorIs(t, err, ErrClosed)

	err = c.Record("k", []byte("v"))
	assert.ErrorIs(t, err, ErrClosed)

	assert.ErrorIs(t, c.Close(), ErrClosed)
}
