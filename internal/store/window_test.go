package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow_PushBelowCapacity(t *testing.T) {
	w := NewWindow[int](3)
	w.Push(1)
	w.Push(2)

	assert.Equal(t, 2, w.Len())
	assert.Equal(t, 3, w.Cap())
	assert.Equal(t, []int{1, 2}, w.Values())
}

func TestWindow_EvictsOldestFirst(t *testing.T) {
	w := NewWindow[int](3)
	for i := 1; i <= 7; i++ {
		w.Push(i)
	}

	assert.Equal(t, 3, w.Len())
	assert.Equal(t, []int{5, 6, 7}, w.Values())
}

func TestWindow_ValuesIsACopy(t *testing.T) {
	w := NewWindow[int](2)
	w.Push(1)

	vals := w.Values()
	vals[0] = 99

	assert.Equal(t, []int{1}, w.Values())
}

func TestWindow_EmptyValuesNotNil(t *testing.T) {
	w := NewWindow[string](2)
	assert.NotNil(t, w.Values())
	assert.Empty(t, w.Values())
}

func TestWindow_MinimumCapacity(t *testing.T) {
	w := NewWindow[int](0)
	w.Push(1)
	w.Push(2)

	assert.Equal(t, 1, w.Cap())
	assert.Equal(t, []int{2}, w.Values())
}
