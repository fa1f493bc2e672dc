package sched

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVirtualAfterFuncFiresOnce(t *testing.T) {
	v := NewVirtual()
	n := 0
	v.AfterFunc(600*time.Millisecond, func() { n++ })

	v.Advance(599 * time.Millisecond)
	assert.Equal(t, 0, n)
	v.Advance(time.Millisecond)
	assert.Equal(t, 1, n)
	v.Advance(time.Hour)
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, v.Pending())
}

func TestVirtualEveryAndStop(t *testing.T) {
	v := NewVirtual()
	n := 0
	tm := v.Every(time.Second, func() { n++ })

	v.Advance(3500 * time.Millisecond)
	assert.Equal(t, 3, n)

	require.True(t, tm.Stop())
	require.False(t, tm.Stop())
	v.Advance(10 * time.Second)
	assert.Equal(t, 3, n)
}

func TestVirtualStopBeforeFire(t *testing.T) {
	v := NewVirtual()
	fired := false
	tm := v.AfterFunc(time.Second, func() { fired = true })
	require.True(t, tm.Stop())
	v.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestVirtualTieBreakPeriodicFirst(t *testing.T) {
	v := NewVirtual()
	var order []string
	// The one-shot is scheduled first but must still run after the tick.
	v.AfterFunc(time.Second, func() { order = append(order, "resolve") })
	v.Every(time.Second, func() { order = append(order, "tick") })

	v.Advance(time.Second)
	assert.Equal(t, []string{"tick", "resolve"}, order)
}

func TestVirtualSchedulingOrder(t *testing.T) {
	v := NewVirtual()
	var order []int
	for i := 0; i < 3; i++ {
		v.AfterFunc(time.Second, func() { order = append(order, i) })
	}
	v.AfterFunc(500*time.Millisecond, func() { order = append(order, -1) })

	v.Advance(time.Second)
	assert.Equal(t, []int{-1, 0, 1, 2}, order)
}

func TestVirtualCallbackSchedulesWithinWindow(t *testing.T) {
	v := NewVirtual()
	var at []time.Duration
	v.AfterFunc(time.Second, func() {
		at = append(at, v.Now())
		v.AfterFunc(time.Second, func() { at = append(at, v.Now()) })
	})
	v.Advance(5 * time.Second)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, at)
	assert.Equal(t, 5*time.Second, v.Now())
}

// loop is a minimal event goroutine for exercising Realtime.
type loop struct {
	ch   chan func()
	done chan struct{}
}

func newLoop() *loop {
	l := &loop{ch: make(chan func(), 16), done: make(chan struct{})}
	go func() {
		for {
			select {
			case f := <-l.ch:
				f()
			case <-l.done:
				return
			}
		}
	}()
	return l
}

func (l *loop) post(f func()) {
	select {
	case l.ch <- f:
	case <-l.done:
	}
}

func TestRealtimeAfterFuncRunsOnDispatch(t *testing.T) {
	l := newLoop()
	defer close(l.done)
	r := NewRealtime(l.post)

	var mu sync.Mutex
	fired := false
	r.AfterFunc(5*time.Millisecond, func() {
		mu.Lock()
		fired = true
		mu.Unlock()
	})
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return fired
	}, time.Second, 5*time.Millisecond)
}

func TestRealtimeStoppedTimerDoesNotRun(t *testing.T) {
	l := newLoop()
	defer close(l.done)
	r := NewRealtime(l.post)

	ran := make(chan struct{}, 1)
	tm := r.AfterFunc(20*time.Millisecond, func() { ran <- struct{}{} })
	require.True(t, tm.Stop())

	select {
	case <-ran:
		t.Fatal("stopped timer ran")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestRealtimeEveryStops(t *testing.T) {
	l := newLoop()
	defer close(l.done)
	r := NewRealtime(l.post)

	ticks := make(chan struct{}, 64)
	tm := r.Every(2*time.Millisecond, func() { ticks <- struct{}{} })

	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("no tick")
	}
	require.True(t, tm.Stop())
	require.False(t, tm.Stop())
}
