package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

func newTestChecker(t *testing.T, cfg Config) *Checker {
	t.Helper()

	checker, err := NewChecker(log.NewNopLogger(), cfg, client.Context{})
	require.NoError(t, err)
	return checker
}

// unreachableConfig points at a port nothing listens on so RPC-backed checks
// fail fast with a connection error.
func unreachableConfig() Config {
	cfg := DefaultConfig()
	cfg.RPCURL = "http://127.0.0.1:1"
	cfg.MaxResponseTime = 500 * time.Millisecond
	return cfg
}

func TestNewCheckerRequiresRPCURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RPCURL = ""

	checker, err := NewChecker(log.NewNopLogger(), cfg, client.Context{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "RPC URL is required")
	require.Nil(t, checker)
}

func TestOverallStatus(t *testing.T) {
	tests := []struct {
		name       string
		components map[string]Component
		expected   Status
	}{
		{
			name: "all healthy",
			components: map[string]Component{
				"rpc":       {Status: StatusHealthy},
				"consensus": {Status: StatusHealthy},
			},
			expected: StatusHealthy,
		},
		{
			name: "degraded component degrades the report",
			components: map[string]Component{
				"rpc":     {Status: StatusHealthy},
				"network": {Status: StatusDegraded},
			},
			expected: StatusDegraded,
		},
		{
			name: "unhealthy wins over degraded",
			components: map[string]Component{
				"rpc":       {Status: StatusDegraded},
				"consensus": {Status: StatusUnhealthy},
			},
			expected: StatusUnhealthy,
		},
		{
			name:       "no components",
			components: map[string]Component{},
			expected:   StatusHealthy,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, overallStatus(tt.components))
		})
	}
}

func TestCheckAgainstUnreachableNode(t *testing.T) {
	checker := newTestChecker(t, unreachableConfig())

	report, err := checker.Check(context.Background(), true)
	require.NoError(t, err)
	require.Equal(t, StatusUnhealthy, report.Status)

	for _, name := range []string{"rpc", "consensus", "network", "modules"} {
		require.Contains(t, report.Components, name)
		require.Equal(t, StatusUnhealthy, report.Components[name].Status, name)
	}
}

func TestReadinessCheckUsesCache(t *testing.T) {
	checker := newTestChecker(t, unreachableConfig())

	cached := &Report{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Components: map[string]Component{
			"rpc": {Status: StatusHealthy},
		},
	}
	checker.mu.Lock()
	checker.cachedReport = cached
	checker.lastCheck = time.Now()
	checker.mu.Unlock()

	// the cached report is returned without touching the dead RPC endpoint
	report, err := checker.Check(context.Background(), false)
	require.NoError(t, err)
	require.Same(t, cached, report)
}

func TestDetailedCheckBypassesCache(t *testing.T) {
	checker := newTestChecker(t, unreachableConfig())

	checker.mu.Lock()
	checker.cachedReport = &Report{Status: StatusHealthy, Timestamp: time.Now()}
	checker.lastCheck = time.Now()
	checker.mu.Unlock()

	report, err := checker.Check(context.Background(), true)
	require.NoError(t, err)
	require.Equal(t, StatusUnhealthy, report.Status)
}

func TestCacheExpiry(t *testing.T) {
	cfg := unreachableConfig()
	cfg.CacheDuration = time.Millisecond
	checker := newTestChecker(t, cfg)

	checker.mu.Lock()
	checker.cachedReport = &Report{Status: StatusHealthy}
	checker.lastCheck = time.Now().Add(-time.Second)
	checker.mu.Unlock()

	require.Nil(t, checker.cached())
}

func TestLivenessHandler(t *testing.T) {
	checker := newTestChecker(t, unreachableConfig())

	rec := httptest.NewRecorder()
	checker.handleLiveness(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "ok", body["status"])
	require.NotEmpty(t, body["timestamp"])
}

func TestReadyHandlerReportsUnhealthy(t *testing.T) {
	checker := newTestChecker(t, unreachableConfig())

	rec := httptest.NewRecorder()
	checker.handleReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var report Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	require.Equal(t, StatusUnhealthy, report.Status)
	require.Contains(t, report.Components, "rpc")
}

func TestReadyHandlerHealthyFromCache(t *testing.T) {
	checker := newTestChecker(t, unreachableConfig())

	checker.mu.Lock()
	checker.cachedReport = &Report{
		Status:     StatusDegraded,
		Timestamp:  time.Now(),
		Components: map[string]Component{"network": {Status: StatusDegraded}},
	}
	checker.lastCheck = time.Now()
	checker.mu.Unlock()

	rec := httptest.NewRecorder()
	checker.handleReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	// degraded still serves traffic
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterRoutes(t *testing.T) {
	checker := newTestChecker(t, unreachableConfig())

	router := mux.NewRouter()
	checker.RegisterRoutes(router)

	for _, route := range []string{"/health", "/health/ready", "/health/detailed"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, route, nil))
		require.NotEqual(t, http.StatusNotFound, rec.Code, route)
	}
}
