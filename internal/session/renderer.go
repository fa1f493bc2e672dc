package session

import (
	"time"

	"github.com/yagogamebrasil01-cpu/memory-rush/internal/game"
)

// renderer turns controller callbacks into session events. It runs on the
// session loop, so it may read the controller directly.
type renderer struct {
	s     *Session
	round uint64
	diff  string
}

func (r *renderer) BoardDealt(rd game.Round) {
	r.round = rd.ID
	r.diff = rd.Difficulty.Key
	r.s.log.Info().Uint64("round", rd.ID).Str("difficulty", r.diff).Msg("round dealt")
	if m := r.s.metrics; m != nil {
		m.RoundsStarted.WithLabelValues(r.diff).Inc()
	}
	r.s.emit(Event{Type: EventBoard, Round: rd.ID, Data: View(rd)})
}

func (r *renderer) TileStateChanged(position int, state game.TileState) {
	t, err := r.s.ctrl.Tile(position)
	if err != nil {
		return
	}
	t.State = state
	r.s.emit(Event{Type: EventTile, Round: r.round, Data: tileView(t)})
}

func (r *renderer) CountersChanged(moves, matched, total int) {
	r.s.emit(Event{Type: EventCounters, Round: r.round, Data: CountersView{
		Moves: moves, MatchedPairs: matched, TotalPairs: total,
	}})
}

func (r *renderer) TimeChanged(elapsed int) {
	r.s.emit(Event{Type: EventTime, Round: r.round, Data: TimeView{
		ElapsedSeconds: elapsed, Display: game.FormatElapsed(elapsed),
	}})
}

func (r *renderer) RoundComplete(elapsed, moves int) {
	r.s.log.Info().Uint64("round", r.round).Int("elapsed", elapsed).Int("moves", moves).Msg("round complete")
	if m := r.s.metrics; m != nil {
		m.RoundsCompleted.WithLabelValues(r.diff).Inc()
		m.RoundSeconds.WithLabelValues(r.diff).Observe(float64(elapsed))
	}
	r.s.emit(Event{Type: EventComplete, Round: r.round, Data: CompleteView{
		ElapsedSeconds: elapsed, Display: game.FormatElapsed(elapsed), Moves: moves,
	}})
}

func (r *renderer) PairResolved(_, _ int, matched bool) {
	if m := r.s.metrics; m != nil {
		outcome := "mismatch"
		if matched {
			outcome = "match"
		}
		m.Moves.WithLabelValues(outcome).Inc()
	}
}

func (r *renderer) Vibrate(pattern ...time.Duration) {
	r.s.emit(Event{Type: EventVibrate, Round: r.round, Data: VibrateView{PatternMs: millis(pattern)}})
}
