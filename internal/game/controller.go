// internal/game/controller.go
//
// Round controller: the state machine behind one play-through.
// Responsibilities:
//   - Deal boards on start/restart and discard them on abandon.
//   - Apply selections: Hidden → Revealed, at most two at a time.
//   - Evaluate each pair after a settle delay: Matched, or back to Hidden.
//   - Count moves and elapsed seconds; declare completion exactly once.
//
// Concurrency:
//   - A Controller is confined to one goroutine. The Scheduler must deliver
//     its callbacks on that same goroutine (see internal/sched).
//   - Every deferred callback carries the round generation it was scheduled
//     for and is ignored once the generation moves on. Pending timers are
//     also stopped explicitly on start, restart and abandon.

package game

import (
	"fmt"
	"time"

	"github.com/yagogamebrasil01-cpu/memory-rush/internal/sched"
)

// Default settle delays and clock period.
const (
	DefaultMatchDelay    = 600 * time.Millisecond
	DefaultMismatchDelay = 1000 * time.Millisecond
	DefaultTickInterval  = time.Second
)

// Options tune a Controller. Zero values fall back to the defaults.
type Options struct {
	Palette       []string
	MatchDelay    time.Duration
	MismatchDelay time.Duration
	TickInterval  time.Duration
	Rand          Source
}

func (o Options) withDefaults() Options {
	if o.MatchDelay <= 0 {
		o.MatchDelay = DefaultMatchDelay
	}
	if o.MismatchDelay <= 0 {
		o.MismatchDelay = DefaultMismatchDelay
	}
	if o.TickInterval <= 0 {
		o.TickInterval = DefaultTickInterval
	}
	if o.Rand == nil {
		o.Rand = DefaultSource
	}
	return o
}

// Controller owns a single Round.
type Controller struct {
	sched sched.Scheduler
	out   Renderer
	opts  Options

	round   Round
	last    *Difficulty // most recently started preset, for Restart
	clock   sched.Timer // round clock; nil when not running
	pending sched.Timer // settle-delay resolution; nil when none
}

// NewController builds an idle controller (phase NotStarted).
// A nil Renderer is replaced with NopRenderer.
func NewController(s sched.Scheduler, out Renderer, opts Options) *Controller {
	if out == nil {
		out = NopRenderer{}
	}
	return &Controller{sched: s, out: out, opts: opts.withDefaults()}
}

// Round returns a copy of the current round.
func (c *Controller) Round() Round { return c.round.clone() }

// Phase reports the current round phase.
func (c *Controller) Phase() Phase { return c.round.Phase }

// Tile returns the tile at position.
func (c *Controller) Tile(position int) (Tile, error) {
	if position < 0 || position >= len(c.round.Tiles) {
		return Tile{}, fmt.Errorf("%w: %d", ErrInvalidPosition, position)
	}
	return c.round.Tiles[position], nil
}

// Start discards the current round and deals a new one for d.
// On error the current round is left untouched.
func (c *Controller) Start(d Difficulty) error {
	if err := d.Validate(len(c.opts.Palette)); err != nil {
		return err
	}
	tiles, err := Generate(c.opts.Palette, d.Pairs, c.opts.Rand)
	if err != nil {
		return err
	}

	c.stopTimers()
	c.round = Round{
		ID:         c.round.ID + 1,
		Difficulty: d,
		Tiles:      tiles,
		TotalPairs: d.Pairs,
		Phase:      Active,
	}
	c.last = &d

	c.out.BoardDealt(c.round.clone())
	c.out.CountersChanged(0, 0, d.Pairs)
	c.out.TimeChanged(0)
	c.vibrate(VibrateStart)

	gen := c.round.ID
	c.clock = c.sched.Every(c.opts.TickInterval, func() {
		if c.round.ID == gen {
			c.Tick()
		}
	})
	return nil
}

// Restart re-deals the most recently started difficulty with fresh
// counters. Fails with ErrConfiguration if nothing was ever started.
func (c *Controller) Restart() error {
	if c.last == nil {
		return fmt.Errorf("%w: no difficulty to restart", ErrConfiguration)
	}
	return c.Start(*c.last)
}

// Abandon ends the round without completing it. Idempotent.
func (c *Controller) Abandon() {
	c.stopTimers()
	if c.round.Phase == NotStarted && len(c.round.Tiles) == 0 {
		return
	}
	c.round = Round{ID: c.round.ID + 1}
}

// Tick advances the round clock by one second while Active.
func (c *Controller) Tick() {
	if !c.round.Active() {
		return
	}
	c.round.ElapsedSeconds++
	c.out.TimeChanged(c.round.ElapsedSeconds)
}

// Select reveals the tile at position.
//
// Out-of-range positions fail with ErrInvalidPosition. Otherwise the call
// is a no-op (false, nil) unless the round is Active, the tile is Hidden
// and fewer than two tiles are awaiting evaluation. Revealing the second
// tile counts a move and schedules the pair's resolution.
func (c *Controller) Select(position int) (bool, error) {
	if position < 0 || position >= len(c.round.Tiles) {
		return false, fmt.Errorf("%w: %d", ErrInvalidPosition, position)
	}
	if !c.round.Active() || len(c.round.Selection) >= 2 {
		return false, nil
	}
	t := &c.round.Tiles[position]
	if t.State != Hidden {
		return false, nil
	}

	t.State = Revealed
	c.round.Selection = append(c.round.Selection, position)
	c.vibrate(VibrateSelect)
	c.out.TileStateChanged(position, Revealed)

	if len(c.round.Selection) == 2 {
		c.round.Moves++
		c.out.CountersChanged(c.round.Moves, c.round.MatchedPairs, c.round.TotalPairs)
		c.evaluate()
	}
	return true, nil
}

// evaluate schedules the resolution of the two revealed tiles.
func (c *Controller) evaluate() {
	a, b := c.round.Selection[0], c.round.Selection[1]
	match := c.round.Tiles[a].Symbol == c.round.Tiles[b].Symbol
	delay := c.opts.MismatchDelay
	if match {
		delay = c.opts.MatchDelay
	}
	gen := c.round.ID
	c.pending = c.sched.AfterFunc(delay, func() {
		c.resolve(gen, a, b, match)
	})
}

func (c *Controller) resolve(gen uint64, a, b int, match bool) {
	if gen != c.round.ID {
		return
	}
	c.pending = nil
	c.round.Selection = c.round.Selection[:0]
	if po, ok := c.out.(PairObserver); ok {
		po.PairResolved(a, b, match)
	}

	if !match {
		c.setState(a, Hidden)
		c.setState(b, Hidden)
		return
	}

	c.setState(a, Matched)
	c.setState(b, Matched)
	c.round.MatchedPairs++
	c.out.CountersChanged(c.round.Moves, c.round.MatchedPairs, c.round.TotalPairs)
	c.vibrate(VibrateMatch)

	if c.round.MatchedPairs == c.round.TotalPairs {
		c.round.Phase = Complete
		c.stopTimers()
		c.vibrate(VibrateComplete)
		c.out.RoundComplete(c.round.ElapsedSeconds, c.round.Moves)
	}
}

func (c *Controller) setState(position int, s TileState) {
	c.round.Tiles[position].State = s
	c.out.TileStateChanged(position, s)
}

// stopTimers stops the round clock and any pending resolution, once each.
func (c *Controller) stopTimers() {
	if c.clock != nil {
		c.clock.Stop()
		c.clock = nil
	}
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

func (c *Controller) vibrate(pattern []time.Duration) {
	if h, ok := c.out.(Haptics); ok {
		h.Vibrate(pattern...)
	}
}
