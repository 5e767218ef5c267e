package queue

// ringQueue implements the Queue interface with a fixed-size ring buffer.
// It is not safe for concurrent use.
type ringQueue[T any] struct {
	items []T
	head  int
	count int
}

var _ Queue[byte] = (*ringQueue[byte])(nil)

// NewRingQueue creates a ring queue holding at most capacity items.
// A capacity below 1 is raised to 1.
func NewRingQueue[T any](capacity int) Queue[T] {
	if capacity < 1 {
		capacity = 1
	}

	return &ringQueue[T]{items: make([]T, capacity)}
}

// Enqueue adds an item to the tail of the queue.
func (q *ringQueue[T]) Enqueue(item T) bool {
	if q.count == len(q.items) {
		return false
	}
	q.items[(q.head+q.count)%len(q.items)] = item
	q.count++

	return true
}

// Dequeue removes and returns the item at the head of the queue.
func (q *ringQueue[T]) Dequeue() (T, bool) {
	var zero T
	if q.count == 0 {
		return zero, false
	}
	item := q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) % len(q.items)
	q.count--

	return item, true
}

// Peek returns the item at the head of the queue without removing it.
func (q *ringQueue[T]) Peek() (T, bool) {
	if q.count == 0 {
		var zero T
		return zero, false
	}

	return q.items[q.head], true
}

// Reset resets the queue to an empty state.
func (q *ringQueue[T]) Reset() {
	clear(q.items)
	q.head = 0
	q.count = 0
}

// IsEmpty returns true if the queue is empty, false otherwise.
func (q *ringQueue[T]) IsEmpty() bool {
	return q.count == 0
}

// Length returns the number of items in the queue.
func (q *ringQueue[T]) Length() int {
	return q.count
}

func (q *ringQueue[T]) Capacity() int {
	return len(q.items)
}

func (q *ringQueue[T]) Free() int {
	return len(q.items) - q.count
}
