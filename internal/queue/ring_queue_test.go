package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRingQueue(t *testing.T) {
	assert := assert.New(t)
	t.Run("Empty Queue", func(t *testing.T) {
		q := NewRingQueue[byte](4)

		assert.True(q.IsEmpty())
		assert.Equal(0, q.Length())
		assert.Equal(4, q.Capacity())
		assert.Equal(4, q.Free())

		_, ok := q.Dequeue()
		assert.False(ok)
		_, ok = q.Peek()
		assert.False(ok)
	})

	t.Run("Enqueue and Dequeue", func(t *testing.T) {
		q := NewRingQueue[byte](2)

		assert.True(q.Enqueue(1))
		assert.False(q.IsEmpty())
		assert.Equal(1, q.Length())

		assert.True(q.Enqueue(2))
		assert.Equal(2, q.Length())
		assert.Equal(0, q.Free())

		assert.False(q.Enqueue(3), "full queue drops the item")
		assert.Equal(2, q.Length())

		v, ok := q.Dequeue()
		assert.True(ok)
		assert.Equal(byte(1), v)

		v, ok = q.Dequeue()
		assert.True(ok)
		assert.Equal(byte(2), v)
		assert.True(q.IsEmpty())

		_, ok = q.Dequeue()
		assert.False(ok)
	})

	t.Run("Wrap Around", func(t *testing.T) {
		q := NewRingQueue[int](3)

		for i := 0; i < 10; i++ {
			assert.True(q.Enqueue(i))
			assert.True(q.Enqueue(i + 100))
			v, _ := q.Dequeue()
			assert.Equal(i, v)
			v, _ = q.Dequeue()
			assert.Equal(i+100, v)
		}
		assert.True(q.IsEmpty())
	})

	t.Run("Peek", func(t *testing.T) {
		q := NewRingQueue[string](2)

		q.Enqueue("data1")
		q.Enqueue("data2")

		v, ok := q.Peek()
		assert.True(ok)
		assert.Equal("data1", v)
		assert.Equal(2, q.Length()) // Length should not change after peek

		q.Dequeue()
		v, _ = q.Peek()
		assert.Equal("data2", v)
	})

	t.Run("Reset", func(t *testing.T) {
		q := NewRingQueue[byte](2)
		q.Enqueue(1)
		q.Enqueue(2)
		q.Reset()

		assert.True(q.IsEmpty())
		assert.Equal(2, q.Free())
		assert.True(q.Enqueue(3))
		v, _ := q.Dequeue()
		assert.Equal(byte(3), v)
	})

	t.Run("Minimum Capacity", func(t *testing.T) {
		q := NewRingQueue[byte](0)
		assert.Equal(1, q.Capacity())
	})

	t.Run("Concurrency", func(t *testing.T) {
		var mu sync.Mutex
		q := NewRingQueue[int](1000)

		var wg sync.WaitGroup
		for i := 0; i < 1000; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				mu.Lock()
				q.Enqueue(i)
				mu.Unlock()
			}(i)
		}
		wg.Wait()

		assert.Equal(1000, q.Length())

		wg.Add(1000)
		for i := 0; i < 1000; i++ {
			go func() {
				defer wg.Done()
				mu.Lock()
				q.Dequeue()
				mu.Unlock()
			}()
		}
		wg.Wait()

		assert.True(q.IsEmpty())
	})
}

func BenchmarkRingQueue(b *testing.B) {
	q := NewRingQueue[byte](16)
	for i := 0; i < b.N; i++ {
		for q.Enqueue(byte(i)) {
		}
		for !q.IsEmpty() {
			q.Dequeue()
		}
	}
}
