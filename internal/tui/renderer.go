package tui

import "github.com/yagogamebrasil01-cpu/memory-rush/internal/game"

// renderer only keeps the status line; View reads the board from the
// controller on every frame.
type renderer struct {
	game.NopRenderer
	m *Model
}

func (r *renderer) PairResolved(_, _ int, matched bool) {
	if matched {
		r.m.status = "Match!"
	} else {
		r.m.status = "No match."
	}
}

func (r *renderer) RoundComplete(elapsed, moves int) {
	r.m.status = ""
}
