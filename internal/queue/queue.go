// Package queue defines FIFO used by grammar analysis and import resolution.
package queue

// Queue is a FIFO backed by a slice. Zero value is an empty queue.
type Queue[T any] struct {
	items []T
	head  int
}

// New creates a queue containing items in order.
func New[T any](items ...T) *Queue[T] {
	return &Queue[T]{items: append([]T(nil), items...)}
}

func (q *Queue[T]) IsEmpty() bool {
	return q.head >= len(q.items)
}

func (q *Queue[T]) Len() int {
	return len(q.items) - q.head
}

// Items returns queued items in order without removing them.
func (q *Queue[T]) Items() []T {
	return append([]T(nil), q.items[q.head:]...)
}

// Append adds items to the tail.
func (q *Queue[T]) Append(items ...T) *Queue[T] {
	if q.head > 0 && q.head >= len(q.items)/2 {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	q.items = append(q.items, items...)
	return q
}

// First removes and returns the head item. Returns zero value and false if the queue is empty.
func (q *Queue[T]) First() (T, bool) {
	var zero T
	if q.IsEmpty() {
		return zero, false
	}

	res := q.items[q.head]
	q.items[q.head] = zero
	q.head++
	return res, true
}
