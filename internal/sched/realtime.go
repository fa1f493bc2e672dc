// internal/sched/realtime.go
//
// Wall-clock Scheduler backed by time.AfterFunc / time.Ticker.
// Firing only enqueues the callback via Dispatch; the callback itself runs
// wherever Dispatch executes it. A timer stopped after it fired but before
// its queued callback ran is still suppressed (stopped flag checked at run).

package sched

import (
	"sync"
	"sync/atomic"
	"time"
)

// Dispatch hands f to the goroutine that owns the scheduled state.
type Dispatch func(f func())

// Realtime is a Scheduler driven by the system clock.
type Realtime struct {
	dispatch Dispatch
}

// NewRealtime returns a Scheduler that posts fired callbacks through dispatch.
func NewRealtime(dispatch Dispatch) *Realtime {
	return &Realtime{dispatch: dispatch}
}

type realTimer struct {
	stopped atomic.Bool
	fired   atomic.Bool
	t       *time.Timer
}

// AfterFunc runs f once, d from now.
func (r *Realtime) AfterFunc(d time.Duration, f func()) Timer {
	rt := &realTimer{}
	rt.t = time.AfterFunc(d, func() {
		r.dispatch(func() {
			if rt.stopped.Load() {
				return
			}
			rt.fired.Store(true)
			f()
		})
	})
	return rt
}

func (rt *realTimer) Stop() bool {
	rt.t.Stop()
	if rt.fired.Load() {
		return false
	}
	return rt.stopped.CompareAndSwap(false, true)
}

type realTicker struct {
	stopped atomic.Bool
	once    sync.Once
	done    chan struct{}
}

// Every runs f every d until stopped.
func (r *Realtime) Every(d time.Duration, f func()) Timer {
	rt := &realTicker{done: make(chan struct{})}
	tk := time.NewTicker(d)
	go func() {
		defer tk.Stop()
		for {
			select {
			case <-rt.done:
				return
			case <-tk.C:
				r.dispatch(func() {
					if !rt.stopped.Load() {
						f()
					}
				})
			}
		}
	}()
	return rt
}

func (rt *realTicker) Stop() bool {
	if !rt.stopped.CompareAndSwap(false, true) {
		return false
	}
	rt.once.Do(func() { close(rt.done) })
	return true
}
