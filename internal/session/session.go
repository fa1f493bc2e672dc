// internal/session/session.go
//
// A Session is one client's game: a round controller confined to a single
// event-loop goroutine, plus the subscribers listening to its output.
//
// Responsibilities:
//   - Serialize every input (HTTP calls, timer callbacks) onto the loop.
//   - Translate controller callbacks into Events and fan them out.
//   - Feed round metrics and log round lifecycle.
//
// A subscriber that falls too far behind is dropped (its channel closed);
// it is expected to reconnect and re-read the snapshot.

package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/yagogamebrasil01-cpu/memory-rush/internal/game"
	"github.com/yagogamebrasil01-cpu/memory-rush/internal/metrics"
	"github.com/yagogamebrasil01-cpu/memory-rush/internal/sched"
)

// ErrClosed is returned by calls on a closed session.
var ErrClosed = errors.New("session closed")

const subscriberBuffer = 256

type Session struct {
	ID      string
	Created time.Time

	ctrl    *game.Controller
	metrics *metrics.Metrics
	log     zerolog.Logger

	inbox     chan func()
	done      chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex // guards subs, closed, lastSeen
	subs     map[chan Event]struct{}
	closed   bool
	lastSeen time.Time
}

// New starts a session loop. m may be nil.
func New(id string, opts game.Options, m *metrics.Metrics, logger zerolog.Logger) *Session {
	now := time.Now()
	s := &Session{
		ID:       id,
		Created:  now,
		metrics:  m,
		log:      logger.With().Str("session", id).Logger(),
		inbox:    make(chan func(), 16),
		done:     make(chan struct{}),
		subs:     make(map[chan Event]struct{}),
		lastSeen: now,
	}
	s.ctrl = game.NewController(sched.NewRealtime(s.post), &renderer{s: s}, opts)
	go s.run()
	return s
}

func (s *Session) run() {
	for {
		select {
		case fn := <-s.inbox:
			fn()
		case <-s.done:
			s.ctrl.Abandon()
			return
		}
	}
}

// post enqueues fn on the loop; dropped once the session is closed.
func (s *Session) post(fn func()) {
	select {
	case s.inbox <- fn:
	case <-s.done:
	}
}

// Do runs fn on the session loop and waits for its result.
func (s *Session) Do(ctx context.Context, fn func(c *game.Controller) error) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	s.Touch()
	errc := make(chan error, 1)
	job := func() { errc <- fn(s.ctrl) }

	select {
	case s.inbox <- job:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-errc:
		return err
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start deals a new round for d (startRound).
func (s *Session) Start(ctx context.Context, d game.Difficulty) error {
	return s.Do(ctx, func(c *game.Controller) error {
		s.noteAbandon(c)
		return c.Start(d)
	})
}

// Select reveals a tile (selectTile).
func (s *Session) Select(ctx context.Context, position int) (bool, error) {
	var accepted bool
	err := s.Do(ctx, func(c *game.Controller) error {
		var err error
		accepted, err = c.Select(position)
		return err
	})
	return accepted, err
}

// Restart re-deals the current difficulty (restartRound).
func (s *Session) Restart(ctx context.Context) error {
	return s.Do(ctx, func(c *game.Controller) error {
		s.noteAbandon(c)
		return c.Restart()
	})
}

// Abandon drops the round and stops its clock (returnToMenu).
func (s *Session) Abandon(ctx context.Context) error {
	return s.Do(ctx, func(c *game.Controller) error {
		s.noteAbandon(c)
		c.Abandon()
		return nil
	})
}

// Snapshot returns a copy of the current round.
func (s *Session) Snapshot(ctx context.Context) (game.Round, error) {
	var r game.Round
	err := s.Do(ctx, func(c *game.Controller) error {
		r = c.Round()
		return nil
	})
	return r, err
}

// noteAbandon records an active round being discarded. Runs on the loop.
func (s *Session) noteAbandon(c *game.Controller) {
	if c.Phase() != game.Active {
		return
	}
	r := c.Round()
	s.log.Info().Uint64("round", r.ID).Int("moves", r.Moves).
		Int("matched", r.MatchedPairs).Msg("round abandoned")
	if s.metrics != nil {
		s.metrics.RoundsAbandoned.Inc()
	}
}

// Subscribe registers a listener. The returned cancel func is idempotent.
// The channel is closed on cancel, on session close, or when the listener
// falls behind.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
	}
}

func (s *Session) emit(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
			delete(s.subs, ch)
			close(ch)
			s.log.Warn().Msg("dropping slow subscriber")
		}
	}
}

// Touch marks the session as used now.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// LastSeen reports the last time the session handled a call.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Done is closed when the session is closed.
func (s *Session) Done() <-chan struct{} { return s.done }

// Close stops the loop (abandoning any round) and closes all subscribers.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		s.closed = true
		for ch := range s.subs {
			close(ch)
		}
		s.subs = nil
		s.mu.Unlock()
		s.log.Debug().Msg("session closed")
	})
}
