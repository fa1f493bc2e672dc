// internal/session/events.go
//
// Wire shapes for the round: snapshots (GET /round) and the event stream
// (GET /round/events). Hidden tiles never carry their symbol.

package session

import (
	"time"

	"github.com/yagogamebrasil01-cpu/memory-rush/internal/game"
)

// Event types.
const (
	EventSnapshot = "snapshot" // first message on a new stream
	EventBoard    = "board"
	EventTile     = "tile"
	EventCounters = "counters"
	EventTime     = "time"
	EventComplete = "complete"
	EventVibrate  = "vibrate"
)

// Event is one renderer callback, tagged with the round it belongs to.
type Event struct {
	Type  string `json:"type"`
	Round uint64 `json:"round"`
	Data  any    `json:"data"`
}

// TileView is a tile as the client may see it.
type TileView struct {
	Position int            `json:"position"`
	State    game.TileState `json:"state"`
	Symbol   string         `json:"symbol,omitempty"`
}

type CountersView struct {
	Moves        int `json:"moves"`
	MatchedPairs int `json:"matchedPairs"`
	TotalPairs   int `json:"totalPairs"`
}

type TimeView struct {
	ElapsedSeconds int    `json:"elapsedSeconds"`
	Display        string `json:"display"` // mm:ss
}

type CompleteView struct {
	ElapsedSeconds int    `json:"elapsedSeconds"`
	Display        string `json:"display"`
	Moves          int    `json:"moves"`
}

type VibrateView struct {
	PatternMs []int64 `json:"patternMs"`
}

// RoundView is the public snapshot of a round.
type RoundView struct {
	ID         uint64          `json:"id"`
	Phase      game.Phase      `json:"phase"`
	Difficulty game.Difficulty `json:"difficulty"`
	Tiles      []TileView      `json:"tiles"`
	CountersView
	TimeView
}

// View converts a round to its public snapshot.
func View(r game.Round) RoundView {
	tiles := make([]TileView, len(r.Tiles))
	for i, t := range r.Tiles {
		tiles[i] = tileView(t)
	}
	return RoundView{
		ID:         r.ID,
		Phase:      r.Phase,
		Difficulty: r.Difficulty,
		Tiles:      tiles,
		CountersView: CountersView{
			Moves:        r.Moves,
			MatchedPairs: r.MatchedPairs,
			TotalPairs:   r.TotalPairs,
		},
		TimeView: TimeView{
			ElapsedSeconds: r.ElapsedSeconds,
			Display:        game.FormatElapsed(r.ElapsedSeconds),
		},
	}
}

func tileView(t game.Tile) TileView {
	v := TileView{Position: t.Position, State: t.State}
	if t.State != game.Hidden {
		v.Symbol = t.Symbol
	}
	return v
}

func millis(pattern []time.Duration) []int64 {
	out := make([]int64, len(pattern))
	for i, d := range pattern {
		out[i] = d.Milliseconds()
	}
	return out
}
