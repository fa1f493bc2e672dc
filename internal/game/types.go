// internal/game/types.go
//
// Core type definitions for the pairs game engine.
// Defines:
//   - TileState: face of a single tile (hidden/revealed/matched).
//   - Tile: one card instance bound to a symbol and a board position.
//   - Phase: round lifecycle (not_started/active/complete).
//   - Round: aggregate state of one play-through.
//   - Error kinds returned by the generator and controller.

package game

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration reports an unknown or inconsistent difficulty preset,
	// or a pair count the palette cannot supply.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidPosition reports a selection outside the current board.
	ErrInvalidPosition = errors.New("invalid position")
)

// TileState is the visible face of a tile.
//   - Hidden:   face down, selectable.
//   - Revealed: face up, waiting for its pair to be evaluated.
//   - Matched:  terminal; stays face up for the rest of the round.
type TileState int

const (
	Hidden TileState = iota
	Revealed
	Matched
)

func (s TileState) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Revealed:
		return "revealed"
	case Matched:
		return "matched"
	}
	return fmt.Sprintf("TileState(%d)", int(s))
}

func (s TileState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *TileState) UnmarshalText(b []byte) error {
	for _, v := range []TileState{Hidden, Revealed, Matched} {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown tile state %q", b)
}

// Tile is one card on the board.
type Tile struct {
	Symbol   string    // palette value; exactly two tiles per round share it
	Position int       // index in the round's tile sequence, fixed at deal
	State    TileState // current face
}

// Phase is the round lifecycle state.
type Phase int

const (
	NotStarted Phase = iota
	Active
	Complete
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not_started"
	case Active:
		return "active"
	case Complete:
		return "complete"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Phase) UnmarshalText(b []byte) error {
	for _, v := range []Phase{NotStarted, Active, Complete} {
		if v.String() == string(b) {
			*p = v
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

// Round holds the state of a single play-through.
type Round struct {
	ID             uint64     // generation; bumped on every start, restart and abandon
	Difficulty     Difficulty // preset in play (zero when NotStarted)
	Tiles          []Tile     // len == 2*TotalPairs, fixed for the round
	Selection      []int      // positions revealed and awaiting evaluation (≤ 2)
	MatchedPairs   int
	TotalPairs     int
	Moves          int // completed two-tile selections, match or not
	ElapsedSeconds int
	Phase          Phase
}

// Active reports whether the round accepts selections and counts time.
func (r *Round) Active() bool { return r.Phase == Active }

// clone returns a deep copy safe to hand to other goroutines.
func (r *Round) clone() Round {
	out := *r
	out.Tiles = append([]Tile(nil), r.Tiles...)
	out.Selection = append([]int(nil), r.Selection...)
	return out
}
