// Package queue provides the bounded FIFO used to model transmit buffers.
package queue

// Queue defines the interface for a bounded FIFO queue.
type Queue[T any] interface {
	// Enqueue adds an item to the tail of the queue. It returns false and
	// drops the item when the queue is full.
	Enqueue(T) bool
	// Dequeue removes and returns the item at the head of the queue.
	Dequeue() (T, bool)
	// Peek returns the item at the head of the queue without removing it.
	Peek() (T, bool)
	// Reset to an empty queue
	Reset()
	// IsEmpty returns true if the queue is empty, false otherwise.
	IsEmpty() bool
	// Length returns the number of items in the queue.
	Length() int
	// Capacity returns the maximum number of items the queue holds.
	Capacity() int
	// Free returns the number of items that can be enqueued before the
	// queue is full.
	Free() int
}
