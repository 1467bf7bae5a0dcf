// Package queue provides the ordered containers backing the device error queue.
package queue

// Queue is a FIFO container.
type Queue[T any] interface {
	// Enqueue adds an item to the tail of the queue.
	Enqueue(item T)
	// Dequeue removes and returns the item at the head of the queue.
	// ok is false when the queue is empty.
	Dequeue() (item T, ok bool)
	// Peek returns the item at the head of the queue without removing it.
	Peek() (item T, ok bool)
	// PeekTail returns the most recently enqueued item.
	PeekTail() (item T, ok bool)
	// Items returns a copy of the queued items in insertion order.
	Items() []T
	// Reset empties the queue.
	Reset()
	// IsEmpty returns true if the queue is empty, false otherwise.
	IsEmpty() bool
	// Length returns the number of items in the queue.
	Length() int
}
