package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type errItem struct {
	number int
}

func TestSliceQueue(t *testing.T) {
	assert := assert.New(t)

	t.Run("Empty Queue", func(t *testing.T) {
		q := NewSliceQueue[*errItem](1)

		assert.True(q.IsEmpty())
		assert.Equal(0, q.Length())

		item, ok := q.Dequeue()
		assert.False(ok)
		assert.Nil(item)

		_, ok = q.Peek()
		assert.False(ok)
		_, ok = q.PeekTail()
		assert.False(ok)
		assert.Empty(q.Items())
	})

	t.Run("Enqueue and Dequeue", func(t *testing.T) {
		q := NewSliceQueue[*errItem](1)

		item1 := &errItem{-113}
		item2 := &errItem{-222}
		q.Enqueue(item1)
		q.Enqueue(item2)
		assert.Equal(2, q.Length())

		got, ok := q.Dequeue()
		assert.True(ok)
		assert.Same(item1, got)

		got, ok = q.Dequeue()
		assert.True(ok)
		assert.Same(item2, got)
		assert.True(q.IsEmpty())
	})

	t.Run("Peek keeps order", func(t *testing.T) {
		q := NewSliceQueue[int](4)
		q.Enqueue(1)
		q.Enqueue(2)
		q.Enqueue(3)

		head, _ := q.Peek()
		tail, _ := q.PeekTail()
		assert.Equal(1, head)
		assert.Equal(3, tail)
		assert.Equal(3, q.Length())
		assert.Equal([]int{1, 2, 3}, q.Items())
	})

	t.Run("Items is a copy", func(t *testing.T) {
		q := NewSliceQueue[int](2)
		q.Enqueue(7)
		items := q.Items()
		items[0] = 99

		head, _ := q.Peek()
		assert.Equal(7, head)
	})

	t.Run("Reset", func(t *testing.T) {
		q := NewSliceQueue[int](2)
		q.Enqueue(1)
		q.Enqueue(2)
		q.Reset()
		assert.True(q.IsEmpty())

		q.Enqueue(3)
		assert.Equal([]int{3}, q.Items())
	})
}
