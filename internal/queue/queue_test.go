package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmpty(t *testing.T) {
	var q Queue[int]
	assert.True(t, q.IsEmpty())
	assert.Equal(t, 0, q.Len())
	_, ok := q.First()
	assert.False(t, ok)
	assert.Empty(t, q.Items())
}

func TestOrder(t *testing.T) {
	q := New(1, 2)
	q.Append(3).Append(4, 5)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, q.Items())

	for i := 1; i <= 5; i++ {
		item, ok := q.First()
		assert.True(t, ok)
		assert.Equal(t, i, item)
		assert.Equal(t, 5-i, q.Len())
	}
	assert.True(t, q.IsEmpty())
}

func TestInterleaved(t *testing.T) {
	q := New[string]()
	expected := make([]string, 0)
	got := make([]string, 0)
	for _, s := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		q.Append(s, s+s)
		expected = append(expected, s, s+s)
		item, _ := q.First()
		got = append(got, item)
	}
	for !q.IsEmpty() {
		item, _ := q.First()
		got = append(got, item)
	}
	assert.Equal(t, expected, got)
}

func TestNewCopiesItems(t *testing.T) {
	items := []int{1, 2, 3}
	q := New(items...)
	q.First()
	q.Append(4)
	assert.Equal(t, []int{1, 2, 3}, items)
	assert.Equal(t, []int{2, 3, 4}, q.Items())
}
