package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yagogamebrasil01-cpu/memory-rush/internal/config"
	"github.com/yagogamebrasil01-cpu/memory-rush/internal/game"
	"github.com/yagogamebrasil01-cpu/memory-rush/internal/metrics"
	"github.com/yagogamebrasil01-cpu/memory-rush/internal/session"
	"github.com/yagogamebrasil01-cpu/memory-rush/internal/store"
)

type identity struct{}

func (identity) IntN(n int) int { return n - 1 }

func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	ds := game.DefaultDifficulties()
	ds["tiny"] = game.Difficulty{Key: "tiny", Rows: 2, Cols: 2, Pairs: 2}
	cfg := &config.Config{
		JWTSecret:    "test-secret",
		ClientOrigin: "http://localhost:5173",
		SessionTTL:   time.Minute,
		Game: game.Options{
			Palette:       []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"},
			MatchDelay:    5 * time.Millisecond,
			MismatchDelay: 10 * time.Millisecond,
			TickInterval:  time.Hour,
			Rand:          identity{},
		},
		Difficulties: ds,
	}
	st := store.NewMemoryStore()
	srv := New(cfg, st, metrics.New(prometheus.NewRegistry()))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(func() {
		ts.Close()
		_ = st.Sweep(context.Background(), time.Now().Add(time.Hour))
	})
	return ts, st
}

func call(t *testing.T, ts *httptest.Server, method, path, token string, body any, out any) int {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func newSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	var res newSessionRes
	require.Equal(t, http.StatusCreated, call(t, ts, http.MethodPost, "/session", "", nil, &res))
	require.NotEmpty(t, res.SessionID)
	require.NotEmpty(t, res.Token)
	return res.Token
}

func TestHealthAndDifficulties(t *testing.T) {
	ts, _ := newTestServer(t)

	var health map[string]bool
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodGet, "/health", "", nil, &health))
	assert.True(t, health["ok"])

	var ds []game.Difficulty
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodGet, "/difficulties", "", nil, &ds))
	require.Len(t, ds, 4)
	assert.Equal(t, "tiny", ds[0].Key)
	assert.Equal(t, game.Difficulty{Key: "hard", Rows: 4, Cols: 6, Pairs: 12}, ds[3])

	var nf map[string]string
	require.Equal(t, http.StatusNotFound, call(t, ts, http.MethodGet, "/nope", "", nil, &nf))
	assert.Equal(t, "not_found", nf["error"])
}

func TestRoundRequiresSession(t *testing.T) {
	ts, st := newTestServer(t)
	srv := &Server{cfg: &config.Config{JWTSecret: "test-secret"}}
	orphan, _, err := srv.signSessionToken("no-such-session")
	require.NoError(t, err)
	other := &Server{cfg: &config.Config{JWTSecret: "other-secret"}}
	forged, _, err := other.signSessionToken("x")
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		status int
		code   string
	}{
		{"missing", "", http.StatusUnauthorized, "unauthorized"},
		{"garbage", "abc.def.ghi", http.StatusUnauthorized, "invalid_token"},
		{"wrong key", forged, http.StatusUnauthorized, "invalid_token"},
		{"unknown session", orphan, http.StatusNotFound, "session_not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res map[string]string
			assert.Equal(t, tt.status, call(t, ts, http.MethodGet, "/round", tt.token, nil, &res))
			assert.Equal(t, tt.code, res["error"])
		})
	}
	assert.Equal(t, 0, st.Len())
}

func TestRoundFlow(t *testing.T) {
	ts, _ := newTestServer(t)
	tok := newSession(t, ts)

	var view session.RoundView
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodGet, "/round", tok, nil, &view))
	assert.Equal(t, game.NotStarted, view.Phase)

	var errRes map[string]string
	require.Equal(t, http.StatusBadRequest,
		call(t, ts, http.MethodPost, "/round/restart", tok, nil, &errRes))
	assert.Equal(t, "configuration", errRes["error"])

	require.Equal(t, http.StatusBadRequest,
		call(t, ts, http.MethodPost, "/round/start", tok, startReq{Difficulty: "nightmare"}, &errRes))
	assert.Equal(t, "configuration", errRes["error"])

	require.Equal(t, http.StatusOK,
		call(t, ts, http.MethodPost, "/round/start", tok, startReq{Difficulty: "tiny"}, &view))
	assert.Equal(t, game.Active, view.Phase)
	require.Len(t, view.Tiles, 4)
	assert.Equal(t, 2, view.TotalPairs)
	assert.Equal(t, "00:00", view.Display)

	// board is A B A B
	pos := func(p int) selectReq { return selectReq{Position: &p} }
	var sel selectRes
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodPost, "/round/select", tok, pos(0), &sel))
	assert.True(t, sel.Accepted)
	assert.Equal(t, "A", sel.Round.Tiles[0].Symbol)
	assert.Empty(t, sel.Round.Tiles[2].Symbol)

	require.Equal(t, http.StatusBadRequest, call(t, ts, http.MethodPost, "/round/select", tok, pos(99), &errRes))
	assert.Equal(t, "invalid_position", errRes["error"])
	require.Equal(t, http.StatusBadRequest, call(t, ts, http.MethodPost, "/round/select", tok, map[string]any{}, &errRes))
	assert.Equal(t, "bad_json", errRes["error"])

	require.Equal(t, http.StatusOK, call(t, ts, http.MethodPost, "/round/select", tok, pos(2), &sel))
	assert.True(t, sel.Accepted)
	assert.Equal(t, 1, sel.Round.Moves)

	require.Eventually(t, func() bool {
		var v session.RoundView
		call(t, ts, http.MethodGet, "/round", tok, nil, &v)
		return v.MatchedPairs == 1
	}, time.Second, 5*time.Millisecond)

	require.Equal(t, http.StatusOK, call(t, ts, http.MethodPost, "/round/select", tok, pos(0), &sel))
	assert.False(t, sel.Accepted, "matched tile cannot be selected")

	require.Equal(t, http.StatusOK, call(t, ts, http.MethodPost, "/round/restart", tok, nil, &view))
	assert.Equal(t, game.Active, view.Phase)
	assert.Zero(t, view.Moves)
	assert.Zero(t, view.MatchedPairs)
	for _, tv := range view.Tiles {
		assert.Equal(t, game.Hidden, tv.State)
	}

	require.Equal(t, http.StatusOK, call(t, ts, http.MethodPost, "/round/menu", tok, nil, &view))
	assert.Equal(t, game.NotStarted, view.Phase)
	assert.Empty(t, view.Tiles)
}

func TestRoundEventsWebsocket(t *testing.T) {
	ts, _ := newTestServer(t)
	tok := newSession(t, ts)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/round/events?token=" + tok
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	type rawEvent struct {
		Type  string          `json:"type"`
		Round uint64          `json:"round"`
		Data  json.RawMessage `json:"data"`
	}
	read := func(typ string) rawEvent {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		for {
			var ev rawEvent
			require.NoError(t, conn.ReadJSON(&ev))
			if ev.Type == typ {
				return ev
			}
		}
	}

	snap := read(session.EventSnapshot)
	assert.Zero(t, snap.Round)

	require.Equal(t, http.StatusOK, call(t, ts, http.MethodPost, "/round/start", tok, startReq{Difficulty: "tiny"}, nil))
	board := read(session.EventBoard)
	assert.Equal(t, uint64(1), board.Round)

	var vib session.VibrateView
	require.NoError(t, json.Unmarshal(read(session.EventVibrate).Data, &vib))
	assert.Equal(t, []int64{50}, vib.PatternMs)

	p := 1
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodPost, "/round/select", tok, selectReq{Position: &p}, nil))
	require.NoError(t, json.Unmarshal(read(session.EventVibrate).Data, &vib))
	assert.Equal(t, []int64{30}, vib.PatternMs)

	var tile session.TileView
	require.NoError(t, json.Unmarshal(read(session.EventTile).Data, &tile))
	assert.Equal(t, 1, tile.Position)
	assert.Equal(t, "B", tile.Symbol)
	assert.Equal(t, game.Revealed, tile.State)
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	newSession(t, ts)

	scrape := func() string {
		res, err := http.Get(ts.URL + "/metrics")
		require.NoError(t, err)
		defer res.Body.Close()
		body, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		return string(body)
	}

	assert.Contains(t, scrape(), "memoryrush_sessions 1")
	// counted after the response is flushed
	assert.Eventually(t, func() bool {
		return strings.Contains(scrape(), `memoryrush_http_requests_total{route="/session",status="201"} 1`)
	}, time.Second, 10*time.Millisecond)
}
