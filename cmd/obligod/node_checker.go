package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// CometRPCChecker implements NodeHealthChecker against the node's local
// CometBFT RPC endpoint.
type CometRPCChecker struct {
	rpcAddr string
	client  *http.Client
}

func NewCometRPCChecker(rpcAddr string) *CometRPCChecker {
	return &CometRPCChecker{
		rpcAddr: rpcAddr,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// query issues a GET against an RPC path and decodes the JSON body into out.
// A nil out only checks the status code.
func (c *CometRPCChecker) query(path string, out interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.rpcAddr+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("rpc unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rpc returned status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode rpc response: %w", err)
	}
	return nil
}

// CheckRPC verifies the RPC endpoint answers its own health probe.
func (c *CometRPCChecker) CheckRPC() error {
	return c.query("/health", nil)
}

// CheckSync reports whether the node is still catching up and its latest
// block height.
func (c *CometRPCChecker) CheckSync() (bool, int64, error) {
	var status struct {
		Result struct {
			SyncInfo struct {
				CatchingUp        bool   `json:"catching_up"`
				LatestBlockHeight string `json:"latest_block_height"`
			} `json:"sync_info"`
		} `json:"result"`
	}
	if err := c.query("/status", &status); err != nil {
		return false, 0, err
	}

	height, _ := strconv.ParseInt(status.Result.SyncInfo.LatestBlockHeight, 10, 64)
	return status.Result.SyncInfo.CatchingUp, height, nil
}

// CheckConsensus is a no-op for non-validator nodes. Validators would check
// their signing status here.
func (c *CometRPCChecker) CheckConsensus() error {
	return nil
}

// GetPeerCount returns the number of connected peers.
func (c *CometRPCChecker) GetPeerCount() (int, error) {
	var netInfo struct {
		Result struct {
			NPeers string `json:"n_peers"`
		} `json:"result"`
	}
	if err := c.query("/net_info", &netInfo); err != nil {
		return 0, err
	}

	peers, _ := strconv.Atoi(netInfo.Result.NPeers)
	return peers, nil
}

// GetBlockHeight returns the node's latest block height.
func (c *CometRPCChecker) GetBlockHeight() (int64, error) {
	_, height, err := c.CheckSync()
	return height, err
}
