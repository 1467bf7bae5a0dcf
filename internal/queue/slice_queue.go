package queue

import "github.com/arloliu/go-instrument/internal/util"

// sliceQueue implements Queue using a slice. It is not safe for concurrent use.
type sliceQueue[T any] struct {
	items []T
}

var _ Queue[int] = (*sliceQueue[int])(nil)

// NewSliceQueue creates a slice backed queue with prealloc capacity.
func NewSliceQueue[T any](prealloc int) Queue[T] {
	return &sliceQueue[T]{items: make([]T, 0, prealloc)}
}

func (q *sliceQueue[T]) Enqueue(item T) {
	q.items = append(q.items, item)
}

func (q *sliceQueue[T]) Dequeue() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]

	return item, true
}

func (q *sliceQueue[T]) Peek() (T, bool) {
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}

	return q.items[0], true
}

func (q *sliceQueue[T]) PeekTail() (T, bool) {
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}

	return q.items[len(q.items)-1], true
}

func (q *sliceQueue[T]) Items() []T {
	return util.CloneSlice(q.items, 0)
}

// Reset reslices to zero length so the underlying array is reused.
func (q *sliceQueue[T]) Reset() {
	clear(q.items)
	q.items = q.items[:0]
}

func (q *sliceQueue[T]) IsEmpty() bool {
	return len(q.items) == 0
}

func (q *sliceQueue[T]) Length() int {
	return len(q.items)
}
