// internal/httpserver/routes_round.go
//
// HTTP routes for playing a round. All require a session token.
//   - GET  /round         → snapshot of the current round
//   - POST /round/start   → startRound(difficultyKey)
//   - POST /round/select  → selectTile(position)
//   - POST /round/restart → restartRound()
//   - POST /round/menu    → returnToMenu()
//   - GET  /round/events  → websocket stream of round events (ws.go)
//
// Settle delays and the round clock run inside the session; these handlers
// only enqueue inputs and report the resulting snapshot.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"

	"github.com/yagogamebrasil01-cpu/memory-rush/internal/game"
	"github.com/yagogamebrasil01-cpu/memory-rush/internal/session"
)

// mountRound registers all /round routes.
func (s *Server) mountRound() {
	s.r.Route("/round", func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/events", s.handleEvents)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(10 * time.Second))
			r.Get("/", s.handleSnapshot)
			r.Post("/start", s.handleStart)
			r.Post("/select", s.handleSelect)
			r.Post("/restart", s.handleRestart)
			r.Post("/menu", s.handleMenu)
		})
	})
}

// startReq is the request payload for /round/start.
type startReq struct {
	Difficulty string `json:"difficulty"`
}

// selectReq is the request payload for /round/select.
type selectReq struct {
	Position *int `json:"position"`
}

// selectRes is the response payload for /round/select.
type selectRes struct {
	Accepted bool              `json:"accepted"`
	Round    session.RoundView `json:"round"`
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.respondSnapshot(w, r, sessionFrom(r))
}

// handleStart resolves the difficulty key and deals a fresh round.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	d, err := s.cfg.Difficulties.Lookup(req.Difficulty)
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}
	sess := sessionFrom(r)
	if err := sess.Start(r.Context(), d); err != nil {
		s.writeGameError(w, r, err)
		return
	}
	s.respondSnapshot(w, r, sess)
}

// handleSelect reveals one tile. A rejected selection (tile not hidden,
// round not active, pair still settling) is not an error: accepted=false.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Position == nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess := sessionFrom(r)
	var (
		accepted bool
		snap     game.Round
	)
	err := sess.Do(r.Context(), func(c *game.Controller) error {
		var err error
		if accepted, err = c.Select(*req.Position); err != nil {
			return err
		}
		snap = c.Round()
		return nil
	})
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, selectRes{Accepted: accepted, Round: session.View(snap)})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := sess.Restart(r.Context()); err != nil {
		s.writeGameError(w, r, err)
		return
	}
	s.respondSnapshot(w, r, sess)
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := sess.Abandon(r.Context()); err != nil {
		s.writeGameError(w, r, err)
		return
	}
	s.respondSnapshot(w, r, sess)
}

func (s *Server) respondSnapshot(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	snap, err := sess.Snapshot(r.Context())
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session.View(snap))
}

// writeGameError maps engine and session errors onto status codes.
func (s *Server) writeGameError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidPosition):
		writeError(w, http.StatusBadRequest, "invalid_position")
	case errors.Is(err, game.ErrConfiguration):
		writeError(w, http.StatusBadRequest, "configuration")
	case errors.Is(err, session.ErrClosed):
		writeError(w, http.StatusGone, "session_closed")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "timeout")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("round request failed")
		writeError(w, http.StatusInternalServerError, "internal")
	}
}
