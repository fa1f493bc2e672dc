// internal/game/renderer.go
//
// Output side of the controller. All methods are called on the controller's
// goroutine and must not block.

package game

import (
	"fmt"
	"time"
)

// Renderer receives every visible state change of a round.
type Renderer interface {
	// BoardDealt is called after a round is (re)dealt, before any other
	// callback for that round. round is a copy.
	BoardDealt(round Round)
	TileStateChanged(position int, state TileState)
	CountersChanged(moves, matchedPairs, totalPairs int)
	TimeChanged(elapsedSeconds int)
	// RoundComplete fires exactly once per completed round.
	RoundComplete(elapsedSeconds, moves int)
}

// Haptics is an optional Renderer extension for vibration feedback.
// Fire-and-forget.
type Haptics interface {
	Vibrate(pattern ...time.Duration)
}

// PairObserver is an optional Renderer extension notified when a pair's
// settle delay elapses, before the tiles change state.
type PairObserver interface {
	PairResolved(a, b int, matched bool)
}

// Vibration patterns.
var (
	VibrateStart    = []time.Duration{50 * time.Millisecond}
	VibrateSelect   = []time.Duration{30 * time.Millisecond}
	VibrateMatch    = []time.Duration{50 * time.Millisecond, 100 * time.Millisecond, 50 * time.Millisecond}
	VibrateComplete = []time.Duration{
		100 * time.Millisecond, 50 * time.Millisecond,
		100 * time.Millisecond, 50 * time.Millisecond,
		200 * time.Millisecond,
	}
)

// NopRenderer ignores everything. Embed it to implement a subset.
type NopRenderer struct{}

func (NopRenderer) BoardDealt(Round)                {}
func (NopRenderer) TileStateChanged(int, TileState) {}
func (NopRenderer) CountersChanged(int, int, int)   {}
func (NopRenderer) TimeChanged(int)                 {}
func (NopRenderer) RoundComplete(int, int)          {}

// FormatElapsed renders seconds as mm:ss. Minutes keep growing past 99.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
