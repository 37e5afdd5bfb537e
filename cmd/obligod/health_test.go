package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type mockNodeChecker struct {
	rpcErr       error
	syncing      bool
	height       int64
	syncErr      error
	consensusErr error
	peerCount    int
}

func (m *mockNodeChecker) CheckRPC() error                  { return m.rpcErr }
func (m *mockNodeChecker) CheckSync() (bool, int64, error)  { return m.syncing, m.height, m.syncErr }
func (m *mockNodeChecker) CheckConsensus() error            { return m.consensusErr }
func (m *mockNodeChecker) GetPeerCount() (int, error)       { return m.peerCount, nil }
func (m *mockNodeChecker) GetBlockHeight() (int64, error)   { return m.height, nil }

func newTestHealthCheck(checker NodeHealthChecker) *HealthCheck {
	return &HealthCheck{nodeChecker: checker, detailCacheTTL: 5 * time.Second}
}

type readinessBody struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

func TestHealthLiveness(t *testing.T) {
	hc := newTestHealthCheck(&mockNodeChecker{})

	rec := httptest.NewRecorder()
	hc.handleLiveness(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "ok", body["status"])
	require.NotEmpty(t, body["timestamp"])
}

func TestHealthReadiness(t *testing.T) {
	hc := newTestHealthCheck(&mockNodeChecker{height: 12345, peerCount: 5})

	rec := httptest.NewRecorder()
	hc.handleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body readinessBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "ready", body.Status)
	require.Equal(t, "ok", body.Checks["rpc"].Status)
	require.Equal(t, "ok", body.Checks["sync"].Status)
}

func TestHealthReadinessWhileSyncing(t *testing.T) {
	hc := newTestHealthCheck(&mockNodeChecker{syncing: true, height: 12345})

	rec := httptest.NewRecorder()
	hc.handleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body readinessBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "not_ready", body.Status)
	require.Equal(t, "syncing", body.Checks["sync"].Status)
	require.Contains(t, body.Checks["sync"].Message, "12345")
}

func TestHealthReadinessRPCDown(t *testing.T) {
	hc := newTestHealthCheck(&mockNodeChecker{rpcErr: fmt.Errorf("connection refused")})

	rec := httptest.NewRecorder()
	hc.handleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body readinessBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "unhealthy", body.Checks["rpc"].Status)
}

// consensus degradation alone must not flip readiness; sentries never sign
func TestHealthReadinessConsensusDegradedStillReady(t *testing.T) {
	hc := newTestHealthCheck(&mockNodeChecker{consensusErr: fmt.Errorf("not in validator set")})

	rec := httptest.NewRecorder()
	hc.handleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body readinessBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "ready", body.Status)
	require.Equal(t, "degraded", body.Checks["consensus"].Status)
}

func TestHealthDetailed(t *testing.T) {
	hc := newTestHealthCheck(&mockNodeChecker{height: 12345, peerCount: 5})

	rec := httptest.NewRecorder()
	hc.handleDetailed(rec, httptest.NewRequest(http.MethodGet, "/health/detailed", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	var body DetailedHealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "healthy", body.Status)
	require.Equal(t, 5, body.System.Peers)
	require.Equal(t, int64(12345), body.System.BlockHeight)
	require.NotZero(t, body.System.Goroutines)

	// second request within the TTL is served from cache
	rec2 := httptest.NewRecorder()
	hc.handleDetailed(rec2, httptest.NewRequest(http.MethodGet, "/health/detailed", nil))
	require.Equal(t, "HIT", rec2.Header().Get("X-Cache"))
}

func TestHealthDetailedCacheExpiry(t *testing.T) {
	hc := newTestHealthCheck(&mockNodeChecker{height: 1})
	hc.detailCacheTTL = time.Millisecond

	rec := httptest.NewRecorder()
	hc.handleDetailed(rec, httptest.NewRequest(http.MethodGet, "/health/detailed", nil))
	require.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	time.Sleep(5 * time.Millisecond)

	rec2 := httptest.NewRecorder()
	hc.handleDetailed(rec2, httptest.NewRequest(http.MethodGet, "/health/detailed", nil))
	require.Equal(t, "MISS", rec2.Header().Get("X-Cache"))
}

func TestHealthStartupGracePeriod(t *testing.T) {
	originalStart := startTime
	startTime = time.Now()
	defer func() { startTime = originalStart }()

	hc := newTestHealthCheck(&mockNodeChecker{})

	rec := httptest.NewRecorder()
	hc.handleStartup(rec, httptest.NewRequest(http.MethodGet, "/health/startup", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "starting", body["status"])

	// after the grace period startup defers to readiness
	startTime = time.Now().Add(-2 * startupGracePeriod)
	rec2 := httptest.NewRecorder()
	hc.handleStartup(rec2, httptest.NewRequest(http.MethodGet, "/health/startup", nil))
	require.Equal(t, http.StatusOK, rec2.Code)
}

func TestCometRPCChecker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/status":
			fmt.Fprint(w, `{"result":{"sync_info":{"catching_up":true,"latest_block_height":"777"}}}`)
		case "/net_info":
			fmt.Fprint(w, `{"result":{"n_peers":"4"}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	checker := NewCometRPCChecker(srv.URL)
	require.NoError(t, checker.CheckRPC())

	catchingUp, height, err := checker.CheckSync()
	require.NoError(t, err)
	require.True(t, catchingUp)
	require.Equal(t, int64(777), height)

	peers, err := checker.GetPeerCount()
	require.NoError(t, err)
	require.Equal(t, 4, peers)

	height, err = checker.GetBlockHeight()
	require.NoError(t, err)
	require.Equal(t, int64(777), height)
}

func TestCometRPCCheckerUnreachable(t *testing.T) {
	checker := NewCometRPCChecker("http://127.0.0.1:1")
	require.Error(t, checker.CheckRPC())
}
