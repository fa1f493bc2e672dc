// internal/game/board.go
//
// Board generation: pick symbols, pair them, shuffle.

package game

import (
	"fmt"
	"math/rand/v2"
)

// Source supplies uniform integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource is the process-wide math/rand/v2 generator.
var DefaultSource Source = globalSource{}

// Generate deals a board of 2*pairCount hidden tiles.
//
// The first pairCount palette symbols are duplicated and then shuffled with
// Fisher–Yates (i from the last index down to 1, swap with j in [0, i]).
// Tile.Position equals the tile's index in the result.
func Generate(palette []string, pairCount int, rng Source) ([]Tile, error) {
	if pairCount < 1 || pairCount > len(palette) {
		return nil, fmt.Errorf("%w: pair count %d outside palette of %d symbols",
			ErrConfiguration, pairCount, len(palette))
	}
	if rng == nil {
		rng = DefaultSource
	}

	deck := make([]string, 0, 2*pairCount)
	deck = append(deck, palette[:pairCount]...)
	deck = append(deck, palette[:pairCount]...)

	for i := len(deck) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}

	tiles := make([]Tile, len(deck))
	for i, s := range deck {
		tiles[i] = Tile{Symbol: s, Position: i, State: Hidden}
	}
	return tiles, nil
}
