// internal/sched/virtual.go
//
// Virtual is a manually advanced Scheduler. Nothing fires until Advance is
// called; then due callbacks run synchronously on the caller's goroutine,
// in due-time order.
//
// Ordering at the same instant:
//   1. periodic callbacks (Every) before one-shot callbacks (AfterFunc),
//   2. then scheduling order.
// This is the round clock tie-break: a tick that coincides with a pending
// match/mismatch resolution is counted first.
//
// Not safe for concurrent use.

package sched

import "time"

const (
	prioPeriodic = iota
	prioOneShot
)

// Virtual is a Scheduler with a hand-driven clock starting at zero.
type Virtual struct {
	now   time.Duration
	seq   uint64
	tasks []*vtask
}

type vtask struct {
	v      *Virtual
	due    time.Duration
	period time.Duration
	prio   int
	seq    uint64
	fn     func()
	live   bool
}

// NewVirtual returns a Virtual scheduler at time zero.
func NewVirtual() *Virtual { return &Virtual{} }

// Now reports the virtual time elapsed since creation.
func (v *Virtual) Now() time.Duration { return v.now }

// Pending reports how many timers are still scheduled.
func (v *Virtual) Pending() int { return len(v.tasks) }

func (v *Virtual) AfterFunc(d time.Duration, f func()) Timer {
	return v.add(d, 0, prioOneShot, f)
}

// Every panics on a non-positive period, like time.NewTicker.
func (v *Virtual) Every(d time.Duration, f func()) Timer {
	if d <= 0 {
		panic("sched: non-positive interval for Every")
	}
	return v.add(d, d, prioPeriodic, f)
}

func (v *Virtual) add(d, period time.Duration, prio int, f func()) *vtask {
	if d < 0 {
		d = 0
	}
	v.seq++
	t := &vtask{v: v, due: v.now + d, period: period, prio: prio, seq: v.seq, fn: f, live: true}
	v.tasks = append(v.tasks, t)
	return t
}

// Advance moves the clock forward by d, running every callback that falls
// due on the way. Callbacks may schedule or stop other timers; newly
// scheduled timers that fall due within the window also run.
func (v *Virtual) Advance(d time.Duration) {
	target := v.now + d
	for {
		t := v.next(target)
		if t == nil {
			break
		}
		v.now = t.due
		if t.period > 0 {
			t.due += t.period
			v.seq++
			t.seq = v.seq
		} else {
			v.remove(t)
		}
		t.fn()
	}
	v.now = target
}

// next returns the earliest live task due at or before target.
func (v *Virtual) next(target time.Duration) *vtask {
	var best *vtask
	for _, t := range v.tasks {
		if t.due > target {
			continue
		}
		if best == nil || t.before(best) {
			best = t
		}
	}
	return best
}

func (t *vtask) before(o *vtask) bool {
	if t.due != o.due {
		return t.due < o.due
	}
	if t.prio != o.prio {
		return t.prio < o.prio
	}
	return t.seq < o.seq
}

func (v *Virtual) remove(t *vtask) {
	t.live = false
	for i, x := range v.tasks {
		if x == t {
			v.tasks = append(v.tasks[:i], v.tasks[i+1:]...)
			return
		}
	}
}

func (t *vtask) Stop() bool {
	if !t.live {
		return false
	}
	t.v.remove(t)
	return true
}
