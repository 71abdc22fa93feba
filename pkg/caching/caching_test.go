package caching

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	c, err := NewCache(t.TempDir(), 0)
	require.NoError(t, err)

	const src = "https://example.com/fonts/Nanum.ttf"
	_, ok := c.Get(src)
	assert.False(t, ok)

	require.NoError(t, c.Set(src, []byte("font-bytes")))
	data, ok := c.Get(src)
	require.True(t, ok)
	assert.Equal(t, "font-bytes", string(data))
	assert.True(t, strings.HasSuffix(c.Path(src), ".ttf"))
}

func TestCache_Expiry(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Minute)
	require.NoError(t, err)

	require.NoError(t, c.Set("k", []byte("v")))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(c.Path("k"), old, old))

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCache_EmptyEntryIsMiss(t *testing.T) {
	c, err := NewCache(t.TempDir(), 0)
	require.NoError(t, err)
	require.NoError(t, c.Set("k", nil))
	_, ok := c.Get("k")
	assert.False(t, ok)
}
