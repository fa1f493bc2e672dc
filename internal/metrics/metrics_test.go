package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveRequest("/round/select", http.StatusOK)
	m.ObserveRequest("/round/select", http.StatusOK)
	m.ObserveRequest("", http.StatusNotFound)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("/round/select", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("unmatched", "404")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.RoundsStarted.WithLabelValues("easy").Inc()
	m.Sessions.Set(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `memoryrush_rounds_started_total{difficulty="easy"} 1`))
	assert.Contains(t, body, "memoryrush_sessions 3")
	assert.NotContains(t, body, "go_goroutines", "fresh registry carries no default collectors")
}
