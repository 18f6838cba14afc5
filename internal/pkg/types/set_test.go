package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSet(t *testing.T) {
	t.Run("empty set", func(t *testing.T) {
		assert.Empty(t, NewSet[int]())
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		set := NewSet(1, 2, 2, 3)
		assert.Equal(t, 3, set.Len())
	})
}

func TestSet_AddHas(t *testing.T) {
	set := NewSet[string]()

	set.Add("0xa", "0xb", "0xa")
	assert.True(t, set.Has("0xa"))
	assert.True(t, set.Has("0xb"))
	assert.False(t, set.Has("0xc"))
	assert.Equal(t, 2, set.Len())
}

func TestSorted(t *testing.T) {
	assert.Equal(t, []uint64{7, 8, 10}, Sorted(NewSet[uint64](10, 7, 8)))
	assert.Empty(t, Sorted(NewSet[uint64]()))
}
