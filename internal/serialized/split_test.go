package serialized_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"unity-asset-reader/internal/serialized"
)

func TestSplitName(t *testing.T) {
	base, idx, ok := serialized.SplitName("data/level0.split12")
	assert.True(t, ok)
	assert.Equal(t, "data/level0", base)
	assert.Equal(t, 12, idx)

	_, _, ok = serialized.SplitName("level0")
	assert.False(t, ok)
	_, _, ok = serialized.SplitName("level0.splitx")
	assert.False(t, ok)
	_, _, ok = serialized.SplitName(".split1")
	assert.False(t, ok)
}

func TestJoinOrdersPieces(t *testing.T) {
	got := serialized.Join([]serialized.Piece{
		{Index: 2, Data: []byte("c")},
		{Index: 0, Data: []byte("a")},
		{Index: 1, Data: []byte("b")},
		{Index: 1, Data: []byte("x")},
	})
	assert.Equal(t, []byte("abc"), got)
}

func TestIsResource(t *testing.T) {
	assert.True(t, serialized.IsResource("sharedassets0.assets.resS"))
	assert.True(t, serialized.IsResource("music.resource"))
	assert.False(t, serialized.IsResource("level0"))
}
