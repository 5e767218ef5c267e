package pool

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerPool(t *testing.T) {
	assert := assert.New(t)

	t.Run("Get and Put", func(t *testing.T) {
		timer1 := GetTimer(10 * time.Millisecond)
		assert.NotNil(timer1)

		PutTimer(timer1)

		timer2 := GetTimer(20 * time.Millisecond)
		assert.NotNil(timer2)

		<-timer2.C
		PutTimer(timer2)
	})

	t.Run("Put Active Timer", func(t *testing.T) {
		timer1 := GetTimer(100 * time.Millisecond)
		time.Sleep(10 * time.Millisecond)
		PutTimer(timer1)

		begin := time.Now()
		timer2 := GetTimer(50 * time.Millisecond)

		select {
		case tt := <-timer2.C:
			if tt.Sub(begin) < 40*time.Millisecond {
				t.Error("timer2 fired early")
			}
		case <-time.After(500 * time.Millisecond):
			t.Error("timer2 should have fired")
		}
	})

	t.Run("Concurrency", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				timer := GetTimer(time.Millisecond)
				defer PutTimer(timer)
				<-timer.C
			}()
		}
		wg.Wait()
	})
}

func TestWait(t *testing.T) {
	t.Run("Elapsed", func(t *testing.T) {
		begin := time.Now()
		assert.True(t, Wait(5*time.Millisecond, nil))
		assert.GreaterOrEqual(t, time.Since(begin), 5*time.Millisecond)
	})

	t.Run("Stopped", func(t *testing.T) {
		stop := make(chan struct{})
		go func() {
			time.Sleep(5 * time.Millisecond)
			close(stop)
		}()

		begin := time.Now()
		assert.False(t, Wait(time.Second, stop))
		assert.Less(t, time.Since(begin), 500*time.Millisecond)
	})

	t.Run("Zero Duration", func(t *testing.T) {
		assert.True(t, Wait(0, nil))

		stop := make(chan struct{})
		close(stop)
		assert.False(t, Wait(0, stop))
	})
}
