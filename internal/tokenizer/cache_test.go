package tokenizer

import (
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedCountsOncePerContent(t *testing.T) {
	var calls atomic.Int32
	base := CounterFunc(func(text string) int {
		calls.Add(1)
		return len(strings.Fields(text))
	})

	counter, err := NewCached(base, 8)
	require.NoError(t, err)

	assert.Equal(t, 3, counter.Count("a b c"))
	assert.Equal(t, 3, counter.Count("a b c"))
	assert.Equal(t, 1, counter.Count("z"))
	assert.Equal(t, int32(2), calls.Load())

	cached, ok := counter.(*Cached)
	require.True(t, ok)
	assert.Equal(t, 2, cached.Len())
}

func TestCachedDisabled(t *testing.T) {
	base := CounterFunc(func(text string) int { return len(text) })

	counter, err := NewCached(base, 0)
	require.NoError(t, err)

	_, isCached := counter.(*Cached)
	assert.False(t, isCached)
	assert.Equal(t, 4, counter.Count("abcd"))
}
