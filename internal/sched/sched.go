// internal/sched/sched.go
//
// Timers for the round controller.
// Responsibilities:
//   - One-shot deferred callbacks (match/mismatch settle delays).
//   - Periodic callbacks (the one-second round clock).
//
// Every callback is delivered on the owner's event goroutine, never on a
// timer goroutine, so the controller can stay lock-free:
//   - Realtime posts callbacks through a Dispatch function (a session loop,
//     a bubbletea program, ...).
//   - Virtual runs callbacks synchronously from Advance; used by tests and
//     headless simulations.

package sched

import "time"

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop prevents the callback from running again.
	// Reports false if the timer had already been stopped or, for one-shot
	// timers, had already fired.
	Stop() bool
}

// Scheduler schedules callbacks relative to its own notion of "now".
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Every(d time.Duration, f func()) Timer
}
