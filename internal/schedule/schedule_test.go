package schedule

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestManualRunsInDeadlineOrder(t *testing.T) {
	clock := NewManual()
	var got []string
	clock.After(30*time.Millisecond, func() { got = append(got, "c") })
	clock.After(10*time.Millisecond, func() { got = append(got, "a") })
	clock.After(10*time.Millisecond, func() { got = append(got, "b") })

	clock.Advance(9 * time.Millisecond)
	assert.Empty(t, got)

	clock.Advance(25 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 0, clock.Pending())
}

func TestManualChainedCallbacks(t *testing.T) {
	clock := NewManual()
	var at []time.Duration
	start := clock.Now()
	clock.After(10*time.Millisecond, func() {
		at = append(at, clock.Now().Sub(start))
		clock.After(10*time.Millisecond, func() {
			at = append(at, clock.Now().Sub(start))
		})
	})

	clock.Advance(50 * time.Millisecond)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, at)
	assert.Equal(t, 50*time.Millisecond, clock.Now().Sub(start))
}

func TestManualCancel(t *testing.T) {
	clock := NewManual()
	ran := false
	cancel := clock.After(time.Second, func() { ran = true })
	cancel()
	cancel()
	clock.Advance(2 * time.Second)
	assert.False(t, ran)
}

func TestThrottleDropsCallsInsideWindow(t *testing.T) {
	clock := NewManual()
	calls := 0
	fn := Throttle(clock, 16*time.Millisecond, func() { calls++ })

	fn()
	fn()
	fn()
	assert.Equal(t, 1, calls)

	clock.Advance(16 * time.Millisecond)
	fn()
	assert.Equal(t, 2, calls)
}

func TestStaggerSpacesByIndex(t *testing.T) {
	clock := NewManual()
	st := Stagger{S: clock, Step: 100 * time.Millisecond}
	var order []int
	for i := 0; i < 3; i++ {
		st.Run(i, func() { order = append(order, i) })
	}

	clock.Advance(0)
	assert.Equal(t, []int{0}, order)
	clock.Advance(150 * time.Millisecond)
	assert.Equal(t, []int{0, 1}, order)
	clock.Advance(time.Second)
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestImmediateRunsSynchronously(t *testing.T) {
	ran := false
	Immediate{}.After(time.Hour, func() { ran = true })
	assert.True(t, ran)
}

func TestTimerPostsAndStops(t *testing.T) {
	var mu sync.Mutex
	var posted []string
	done := make(chan struct{}, 1)
	timer := NewTimer(func(fn func()) {
		mu.Lock()
		fn()
		mu.Unlock()
		done <- struct{}{}
	})

	timer.After(time.Millisecond, func() { posted = append(posted, "fired") })
	cancel := timer.After(time.Hour, func() { posted = append(posted, "never") })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.FailNow(t, "timer did not fire")
	}
	cancel()
	assert.Equal(t, 0, timer.Pending())

	timer.After(time.Hour, func() {})
	timer.Stop()
	assert.Equal(t, 0, timer.Pending())
	timer.After(time.Millisecond, func() { posted = append(posted, "after stop") })

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"fired"}, posted)
}
