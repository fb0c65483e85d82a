package debounce

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const window = 20 * time.Millisecond

func TestCoalescer_LastTriggerWins(t *testing.T) {
	c := New(window)

	var mu sync.Mutex
	var ran []int
	for i := 1; i <= 5; i++ {
		i := i
		assert.True(t, c.Trigger(func() {
			mu.Lock()
			ran = append(ran, i)
			mu.Unlock()
		}))
	}
	assert.True(t, c.Pending())

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(ran) == 1
	}, time.Second, time.Millisecond)

	// nothing else fires afterwards
	time.Sleep(3 * window)
	mu.Lock()
	assert.Equal(t, []int{5}, ran)
	mu.Unlock()
	assert.False(t, c.Pending())
}

func TestCoalescer_SeparateBurstsEachRun(t *testing.T) {
	c := New(window)

	var count int32
	c.Trigger(func() { atomic.AddInt32(&count, 1) })
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&count) == 1 }, time.Second, time.Millisecond)

	c.Trigger(func() { atomic.AddInt32(&count, 1) })
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&count) == 2 }, time.Second, time.Millisecond)
}

func TestCoalescer_FlushRunsNowAndDropsPending(t *testing.T) {
	c := New(window)

	var pending, flushed int32
	c.Trigger(func() { atomic.AddInt32(&pending, 1) })

	assert.True(t, c.Flush(func() { atomic.AddInt32(&flushed, 1) }))
	assert.Equal(t, int32(1), atomic.LoadInt32(&flushed))
	assert.False(t, c.Pending())

	time.Sleep(3 * window)
	assert.Equal(t, int32(0), atomic.LoadInt32(&pending))
}

func TestCoalescer_Window(t *testing.T) {
	assert.Equal(t, window, New(window).Window())
}

func TestCoalescer_Stop(t *testing.T) {
	c := New(window)

	var count int32
	c.Trigger(func() { atomic.AddInt32(&count, 1) })
	c.Stop()

	assert.False(t, c.Trigger(func() { atomic.AddInt32(&count, 1) }))
	assert.False(t, c.Flush(func() { atomic.AddInt32(&count, 1) }))

	time.Sleep(3 * window)
	assert.Equal(t, int32(0), atomic.LoadInt32(&count))
}

func TestCoalescer_ConcurrentTriggers(t *testing.T) {
	c := New(window)

	var count int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Trigger(func() { atomic.AddInt32(&count, 1) })
		}()
	}
	wg.Wait()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&count) == 1 }, time.Second, time.Millisecond)
	time.Sleep(3 * window)
	assert.Equal(t, int32(1), atomic.LoadInt32(&count))
}
