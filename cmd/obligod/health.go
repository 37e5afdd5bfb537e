package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	startTime = time.Now()

	healthCheckTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "obligo_health_check_total",
			Help: "Total number of health check requests",
		},
		[]string{"endpoint", "status"},
	)

	healthCheckDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "obligo_health_check_duration_seconds",
			Help:    "Health check request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"endpoint"},
	)

	serviceHealthy = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "obligo_service_healthy",
			Help: "1 if service is healthy, 0 if unhealthy",
		},
		[]string{"service"},
	)
)

// startupGracePeriod is how long /health/startup reports "starting" before it
// defers to the readiness check.
const startupGracePeriod = 30 * time.Second

// NodeHealthChecker reports the node's own view of its health, typically by
// querying the local CometBFT RPC endpoint.
type NodeHealthChecker interface {
	CheckRPC() error
	CheckSync() (catchingUp bool, height int64, err error)
	CheckConsensus() error
	GetPeerCount() (int, error)
	GetBlockHeight() (int64, error)
}

// CheckResult is a single named check inside a health response.
type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// SystemHealth carries process-level metrics in the detailed response.
type SystemHealth struct {
	MemoryMB    uint64 `json:"memory_mb"`
	Goroutines  int    `json:"goroutines"`
	Peers       int    `json:"peers"`
	BlockHeight int64  `json:"block_height"`
}

// DetailedHealthResponse is the body of /health/detailed.
type DetailedHealthResponse struct {
	Status        string                 `json:"status"`
	UptimeSeconds int64                  `json:"uptime_seconds"`
	Version       string                 `json:"version"`
	Checks        map[string]CheckResult `json:"checks"`
	System        SystemHealth           `json:"system"`
}

// HealthCheck serves the liveness, readiness, startup and detailed health
// endpoints expected by orchestration probes.
type HealthCheck struct {
	server      *http.Server
	nodeChecker NodeHealthChecker

	mu            sync.Mutex
	cachedDetail  *DetailedHealthResponse
	cachedAt      time.Time
	detailCacheTTL time.Duration
}

// StartHealthCheckServer starts the health HTTP server on the given port and
// returns the handle for shutdown.
func StartHealthCheckServer(port int, nodeChecker NodeHealthChecker) *HealthCheck {
	hc := &HealthCheck{
		nodeChecker:    nodeChecker,
		detailCacheTTL: 5 * time.Second,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", hc.instrument("health", hc.handleLiveness))
	mux.HandleFunc("/health/ready", hc.instrument("ready", hc.handleReadiness))
	mux.HandleFunc("/health/detailed", hc.instrument("detailed", hc.handleDetailed))
	mux.HandleFunc("/health/startup", hc.instrument("startup", hc.handleStartup))

	hc.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	go func() {
		if err := hc.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("health check server error: %v\n", err)
		}
	}()

	return hc
}

// Shutdown gracefully stops the health server.
func (hc *HealthCheck) Shutdown(ctx context.Context) error {
	if hc.server != nil {
		return hc.server.Shutdown(ctx)
	}
	return nil
}

func (hc *HealthCheck) instrument(endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		handler(rw, r)

		healthCheckTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", rw.statusCode)).Inc()
		healthCheckDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// runNodeChecks queries the node checker once and reports per-check results
// plus whether the node is ready to serve traffic. Consensus degradation does
// not block readiness since sentries and archive nodes never sign.
func (hc *HealthCheck) runNodeChecks() (map[string]CheckResult, bool) {
	checks := make(map[string]CheckResult)
	ready := true

	if hc.nodeChecker == nil {
		return checks, ready
	}

	if err := hc.nodeChecker.CheckRPC(); err != nil {
		checks["rpc"] = CheckResult{Status: "unhealthy", Message: err.Error()}
		serviceHealthy.WithLabelValues("rpc").Set(0)
		ready = false
	} else {
		checks["rpc"] = CheckResult{Status: "ok"}
		serviceHealthy.WithLabelValues("rpc").Set(1)
	}

	catchingUp, height, err := hc.nodeChecker.CheckSync()
	switch {
	case err != nil:
		checks["sync"] = CheckResult{Status: "unhealthy", Message: err.Error()}
		serviceHealthy.WithLabelValues("sync").Set(0)
		ready = false
	case catchingUp:
		checks["sync"] = CheckResult{Status: "syncing", Message: fmt.Sprintf("catching up at height %d", height)}
		serviceHealthy.WithLabelValues("sync").Set(0)
		ready = false
	default:
		checks["sync"] = CheckResult{Status: "ok"}
		serviceHealthy.WithLabelValues("sync").Set(1)
	}

	if err := hc.nodeChecker.CheckConsensus(); err != nil {
		checks["consensus"] = CheckResult{Status: "degraded", Message: err.Error()}
		serviceHealthy.WithLabelValues("consensus").Set(0.5)
	} else {
		checks["consensus"] = CheckResult{Status: "ok"}
		serviceHealthy.WithLabelValues("consensus").Set(1)
	}

	return checks, ready
}

// handleLiveness always reports ok while the process is running.
func (hc *HealthCheck) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (hc *HealthCheck) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	checks, ready := hc.runNodeChecks()

	status, statusCode := "ready", http.StatusOK
	if !ready {
		status, statusCode = "not_ready", http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}

func (hc *HealthCheck) handleDetailed(w http.ResponseWriter, _ *http.Request) {
	hc.mu.Lock()
	if hc.cachedDetail != nil && time.Since(hc.cachedAt) <= hc.detailCacheTTL {
		cached := hc.cachedDetail
		hc.mu.Unlock()
		w.Header().Set("X-Cache", "HIT")
		writeJSON(w, http.StatusOK, cached)
		return
	}
	hc.mu.Unlock()

	checks, _ := hc.runNodeChecks()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	peers := 0
	blockHeight := int64(0)
	if hc.nodeChecker != nil {
		peers, _ = hc.nodeChecker.GetPeerCount()
		blockHeight, _ = hc.nodeChecker.GetBlockHeight()
	}

	status := "healthy"
	for _, check := range checks {
		if check.Status == "unhealthy" {
			status = "unhealthy"
			break
		}
		if check.Status == "degraded" || check.Status == "syncing" {
			status = "degraded"
		}
	}

	response := &DetailedHealthResponse{
		Status:        status,
		UptimeSeconds: int64(time.Since(startTime).Seconds()),
		Version:       nodeVersion(),
		Checks:        checks,
		System: SystemHealth{
			MemoryMB:    memStats.Alloc / 1024 / 1024,
			Goroutines:  runtime.NumGoroutine(),
			Peers:       peers,
			BlockHeight: blockHeight,
		},
	}

	hc.mu.Lock()
	hc.cachedDetail = response
	hc.cachedAt = time.Now()
	hc.mu.Unlock()

	w.Header().Set("X-Cache", "MISS")
	writeJSON(w, http.StatusOK, response)
}

// handleStartup reports "starting" during the grace period, then defers to
// the readiness check.
func (hc *HealthCheck) handleStartup(w http.ResponseWriter, r *http.Request) {
	if time.Since(startTime) < startupGracePeriod {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "starting",
			"message": "application is initializing",
		})
		return
	}
	hc.handleReadiness(w, r)
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func nodeVersion() string {
	if version := os.Getenv("OBLIGO_VERSION"); version != "" {
		return version
	}
	return "dev"
}
