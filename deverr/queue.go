package deverr

import (
	"strings"

	"github.com/arloliu/go-instrument/internal/queue"
)

// Queue keeps the device errors of one drain episode in insertion order.
//
// It is not safe for concurrent use; a session owns its queue.
type Queue struct {
	items          queue.Queue[DeviceError]
	noErrorMessage string
}

// NewQueue creates an empty queue. noErrorMessage is reported while the queue is empty;
// an empty value selects NoErrorCompoundMessage.
func NewQueue(noErrorMessage string) *Queue {
	if noErrorMessage == "" {
		noErrorMessage = NoErrorCompoundMessage
	}

	return &Queue{
		items:          queue.NewSliceQueue[DeviceError](4),
		noErrorMessage: noErrorMessage,
	}
}

// NoErrorMessage returns the sentinel reported while the queue is empty.
func (q *Queue) NoErrorMessage() string { return q.noErrorMessage }

// SetNoErrorMessage replaces the sentinel reported while the queue is empty.
func (q *Queue) SetNoErrorMessage(msg string) {
	if msg != "" {
		q.noErrorMessage = msg
	}
}

// Enqueue appends e.
func (q *Queue) Enqueue(e DeviceError) { q.items.Enqueue(e) }

// Len returns the number of queued entries.
func (q *Queue) Len() int { return q.items.Length() }

// IsEmpty reports whether the queue holds no entries.
func (q *Queue) IsEmpty() bool { return q.items.IsEmpty() }

// Items returns a copy of the entries in insertion order.
func (q *Queue) Items() []DeviceError { return q.items.Items() }

// Reset empties the queue.
func (q *Queue) Reset() { q.items.Reset() }

// Last returns the most recently enqueued entry.
func (q *Queue) Last() (DeviceError, bool) { return q.items.PeekTail() }

// LastMessage returns the compound message of the most recent entry, or the
// "no error" sentinel when the queue is empty.
func (q *Queue) LastMessage() string {
	if last, ok := q.Last(); ok {
		return last.String()
	}

	return q.noErrorMessage
}

// HasErrors reports whether any queued entry is an error.
func (q *Queue) HasErrors() bool {
	for _, e := range q.items.Items() {
		if e.IsError() {
			return true
		}
	}

	return false
}

// Report returns the compound messages of every entry, one per line.
func (q *Queue) Report() string {
	items := q.items.Items()
	if len(items) == 0 {
		return ""
	}

	lines := make([]string, len(items))
	for i, e := range items {
		lines[i] = e.String()
	}

	return strings.Join(lines, "\n")
}
