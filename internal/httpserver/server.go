// internal/httpserver/server.go
//
// HTTP server wiring for the Memory Rush backend.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, access log,
//     metrics, JSON, CORS, timeouts).
//   - Public endpoints: "/", "/health", "/metrics", "/difficulties".
//   - Session bootstrap: POST /session issues a signed session token.
//   - Round endpoints (require session): mounted under /round.
//   - Idle session eviction (Janitor).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so the session cookie works).
//   - The websocket route is kept outside the handler timeout.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/yagogamebrasil01-cpu/memory-rush/internal/config"
	"github.com/yagogamebrasil01-cpu/memory-rush/internal/metrics"
	"github.com/yagogamebrasil01-cpu/memory-rush/internal/session"
	"github.com/yagogamebrasil01-cpu/memory-rush/internal/store"
)

// Server bundles router, session registry, config and metrics.
type Server struct {
	r       *chi.Mux
	store   store.Store
	cfg     *config.Config
	metrics *metrics.Metrics
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg *config.Config, st store.Store, m *metrics.Metrics) *Server {
	s := &Server{r: chi.NewRouter(), store: st, cfg: cfg, metrics: m}

	// --- middleware ---
	s.r.Use(chimw.RequestID)               // add X-Request-ID
	s.r.Use(chimw.RealIP)                  // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)               // recover from panics
	s.r.Use(hlog.NewHandler(log.Logger))   // request-scoped logger
	s.r.Use(hlog.AccessHandler(accessLog)) // one line per request
	s.r.Use(s.countRequests)               // prometheus
	s.r.Use(jsonContentType)               // default JSON responses
	s.r.Use(s.cors)                        // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"memoryrush-go","endpoints":["/health","/difficulties","POST /session","/round/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Method(http.MethodGet, "/metrics", m.Handler())

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Get("/difficulties", s.handleDifficulties)
		r.Post("/session", s.handleNewSession)
	})

	// Round endpoints - REQUIRE SESSION
	s.mountRound()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Janitor evicts sessions idle for longer than the configured TTL, checking
// every interval until ctx is cancelled.
func (s *Server) Janitor(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.store.Sweep(ctx, now.Add(-s.cfg.SessionTTL)); n > 0 {
				log.Info().Int("evicted", n).Msg("idle sessions evicted")
			}
			s.metrics.Sessions.Set(float64(s.store.Len()))
		}
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// countRequests records status per matched route pattern.
func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := ""
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.ObserveRequest(route, status)
	})
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Debug().
		Str("method", r.Method).
		Stringer("url", r.URL).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Str("request_id", chimw.GetReqID(r.Context())).
		Msg("request")
}

// ------------------------------ SESSION ------------------------------------

type newSessionRes struct {
	SessionID string    `json:"sessionId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// handleNewSession creates an idle game session and hands out its token
// (cookie + body). The client then starts a round via /round/start.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	sess := session.New(id, s.cfg.Game, s.metrics, log.Logger)
	if err := s.store.Save(r.Context(), sess); err != nil {
		sess.Close()
		hlog.FromRequest(r).Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.metrics.Sessions.Set(float64(s.store.Len()))

	tok, exp, err := s.signSessionToken(id)
	if err != nil {
		_ = s.store.Delete(r.Context(), id)
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setSessionCookie(w, tok, exp)
	hlog.FromRequest(r).Info().Str("session", id).Msg("session created")
	writeJSON(w, http.StatusCreated, newSessionRes{SessionID: id, Token: tok, ExpiresAt: exp})
}

func (s *Server) handleDifficulties(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Difficulties.List())
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
