// Package health exposes node health endpoints on the API server.
//
// Three endpoints are registered: /health (liveness), /health/ready
// (readiness for load balancers) and /health/detailed (per-component status
// with metrics). Checks run in parallel against the local CometBFT RPC and
// results are cached briefly to keep probe traffic off the node.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/gorilla/mux"

	rpcclient "github.com/cometbft/cometbft/rpc/client/http"
)

// Status grades a component.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
	StatusUnknown   Status = "unknown"
)

// Component is the result of one named check.
type Component struct {
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metrics   map[string]interface{} `json:"metrics,omitempty"`
}

// Report is the aggregate health response.
type Report struct {
	Status     Status               `json:"status"`
	Timestamp  time.Time            `json:"timestamp"`
	Components map[string]Component `json:"components,omitempty"`
}

// Config tunes the checker's thresholds.
type Config struct {
	// RPCURL is the local CometBFT RPC endpoint.
	RPCURL string

	// MaxResponseTime is the per-check RPC timeout. Responses slower than
	// half of it grade the component as degraded.
	MaxResponseTime time.Duration

	// MaxBlockAge marks the node unhealthy when the latest block is older.
	MaxBlockAge time.Duration

	// MinPeerCount below which the network component is degraded.
	MinPeerCount int

	// CacheDuration is how long readiness results are reused.
	CacheDuration time.Duration
}

// DefaultConfig returns thresholds suited to the chain's 4-second blocks.
func DefaultConfig() Config {
	return Config{
		RPCURL:          "http://localhost:26657",
		MaxResponseTime: 5 * time.Second,
		MaxBlockAge:     5 * time.Minute,
		MinPeerCount:    3,
		CacheDuration:   5 * time.Second,
	}
}

// moduleStores are the app stores whose presence the detailed check
// verifies. Bond custody cannot function with any of these unmounted.
var moduleStores = []string{"bank", "staking", "bond", "vault", "pricefeed"}

// Checker runs the health checks.
type Checker struct {
	logger    log.Logger
	rpcClient *rpcclient.HTTP
	clientCtx client.Context
	cfg       Config

	mu           sync.RWMutex
	lastCheck    time.Time
	cachedReport *Report
}

// NewChecker builds a Checker against the configured RPC endpoint.
func NewChecker(logger log.Logger, cfg Config, clientCtx client.Context) (*Checker, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("RPC URL is required")
	}

	rpcClient, err := rpcclient.New(cfg.RPCURL, "/websocket")
	if err != nil {
		return nil, fmt.Errorf("failed to create RPC client: %w", err)
	}

	return &Checker{
		logger:    logger,
		rpcClient: rpcClient,
		clientCtx: clientCtx,
		cfg:       cfg,
	}, nil
}

// Check runs all component checks in parallel and aggregates the report.
// Readiness checks reuse the cached report inside CacheDuration; detailed
// checks always run fresh and include the module store check.
func (c *Checker) Check(ctx context.Context, detailed bool) (*Report, error) {
	if !detailed {
		if cached := c.cached(); cached != nil {
			return cached, nil
		}
	}

	checks := map[string]func(context.Context) Component{
		"rpc":       c.checkRPC,
		"consensus": c.checkConsensus,
		"network":   c.checkNetwork,
	}
	if detailed {
		checks["modules"] = c.checkModuleStores
	}

	report := &Report{
		Timestamp:  time.Now(),
		Components: make(map[string]Component, len(checks)),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for name, fn := range checks {
		wg.Add(1)
		go func(name string, fn func(context.Context) Component) {
			defer wg.Done()
			result := fn(ctx)
			mu.Lock()
			report.Components[name] = result
			mu.Unlock()
		}(name, fn)
	}
	wg.Wait()

	report.Status = overallStatus(report.Components)

	c.mu.Lock()
	c.lastCheck = time.Now()
	c.cachedReport = report
	c.mu.Unlock()

	return report, nil
}

func (c *Checker) cached() *Report {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cachedReport == nil || time.Since(c.lastCheck) >= c.cfg.CacheDuration {
		return nil
	}
	return c.cachedReport
}

// checkRPC measures RPC responsiveness.
func (c *Checker) checkRPC(ctx context.Context) Component {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.cfg.MaxResponseTime)
	defer cancel()

	start := time.Now()
	status, err := c.rpcClient.Status(timeoutCtx)
	duration := time.Since(start)

	if err != nil {
		return unhealthy(fmt.Sprintf("RPC connection failed: %v", err))
	}

	component := Component{
		Status:    StatusHealthy,
		Message:   "RPC endpoint is responsive",
		Timestamp: time.Now(),
		Metrics: map[string]interface{}{
			"response_time_ms": duration.Milliseconds(),
			"moniker":          status.NodeInfo.Moniker,
			"network":          status.NodeInfo.Network,
		},
	}
	if duration > c.cfg.MaxResponseTime/2 {
		component.Status = StatusDegraded
		component.Message = "RPC endpoint response time is degraded"
	}
	return component
}

// checkConsensus verifies the node is synced and producing fresh blocks.
func (c *Checker) checkConsensus(ctx context.Context) Component {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.cfg.MaxResponseTime)
	defer cancel()

	status, err := c.rpcClient.Status(timeoutCtx)
	if err != nil {
		return unhealthy(fmt.Sprintf("Failed to get consensus status: %v", err))
	}

	metrics := map[string]interface{}{
		"latest_block_height": status.SyncInfo.LatestBlockHeight,
		"latest_block_time":   status.SyncInfo.LatestBlockTime.Format(time.RFC3339),
		"catching_up":         status.SyncInfo.CatchingUp,
	}

	if blockAge := time.Since(status.SyncInfo.LatestBlockTime); blockAge > c.cfg.MaxBlockAge {
		metrics["block_age_seconds"] = blockAge.Seconds()
		return Component{
			Status:    StatusUnhealthy,
			Message:   fmt.Sprintf("Node is stale (last block %.1f minutes ago)", blockAge.Minutes()),
			Timestamp: time.Now(),
			Metrics:   metrics,
		}
	}

	component := Component{
		Status:    StatusHealthy,
		Message:   "Consensus is healthy",
		Timestamp: time.Now(),
		Metrics:   metrics,
	}
	if status.SyncInfo.CatchingUp {
		component.Status = StatusDegraded
		component.Message = "Node is catching up with the network"
	}
	return component
}

// checkNetwork verifies peer connectivity.
func (c *Checker) checkNetwork(ctx context.Context) Component {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.cfg.MaxResponseTime)
	defer cancel()

	netInfo, err := c.rpcClient.NetInfo(timeoutCtx)
	if err != nil {
		return unhealthy(fmt.Sprintf("Failed to get network info: %v", err))
	}

	component := Component{
		Status:    StatusHealthy,
		Message:   fmt.Sprintf("Network healthy with %d peers", netInfo.NPeers),
		Timestamp: time.Now(),
		Metrics: map[string]interface{}{
			"peer_count": netInfo.NPeers,
			"listening":  netInfo.Listening,
		},
	}
	switch {
	case netInfo.NPeers == 0:
		component.Status = StatusUnhealthy
		component.Message = "No peers connected"
	case netInfo.NPeers < c.cfg.MinPeerCount:
		component.Status = StatusDegraded
		component.Message = fmt.Sprintf("Low peer count: %d (minimum recommended: %d)", netInfo.NPeers, c.cfg.MinPeerCount)
	}
	return component
}

// checkModuleStores verifies every required module store is mounted and
// answering ABCI queries.
func (c *Checker) checkModuleStores(ctx context.Context) Component {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.cfg.MaxResponseTime)
	defer cancel()

	stores := make(map[string]string, len(moduleStores))
	failed := 0
	for _, store := range moduleStores {
		res, err := c.rpcClient.ABCIQuery(timeoutCtx, fmt.Sprintf("/store/%s/key", store), []byte{0x00})
		switch {
		case err != nil:
			stores[store] = fmt.Sprintf("query failed: %v", err)
			failed++
		case res.Response.Code != 0:
			stores[store] = fmt.Sprintf("store unavailable: %s", res.Response.Log)
			failed++
		default:
			stores[store] = "ok"
		}
	}

	component := Component{
		Status:    StatusHealthy,
		Message:   "All module stores mounted",
		Timestamp: time.Now(),
		Metrics:   map[string]interface{}{"stores": stores},
	}
	if failed > 0 {
		component.Status = StatusUnhealthy
		component.Message = fmt.Sprintf("%d of %d module stores unavailable", failed, len(moduleStores))
	}
	return component
}

func unhealthy(message string) Component {
	return Component{
		Status:    StatusUnhealthy,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func overallStatus(components map[string]Component) Status {
	status := StatusHealthy
	for _, component := range components {
		switch component.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}

// RegisterRoutes mounts the health endpoints on the API server router.
func (c *Checker) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", c.handleLiveness).Methods("GET")
	router.HandleFunc("/health/ready", c.handleReady).Methods("GET")
	router.HandleFunc("/health/detailed", c.handleDetailed).Methods("GET")
}

func (c *Checker) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (c *Checker) handleReady(w http.ResponseWriter, r *http.Request) {
	c.serveReport(w, r, false)
}

func (c *Checker) handleDetailed(w http.ResponseWriter, r *http.Request) {
	c.serveReport(w, r, true)
}

func (c *Checker) serveReport(w http.ResponseWriter, r *http.Request, detailed bool) {
	report, err := c.Check(r.Context(), detailed)
	if err != nil {
		c.logger.Error("health check failed", "detailed", detailed, "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	statusCode := http.StatusOK
	if report.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, report)
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
