package main

import (
	"context"
	"fmt"
	"os"
	"time"

	svrcmd "github.com/cosmos/cosmos-sdk/server/cmd"

	"github.com/obligo-chain/obligo/app"
	"github.com/obligo-chain/obligo/app/telemetry"
	"github.com/obligo-chain/obligo/cmd/obligod/cmd"
)

func main() {
	home := resolveNodeHome(os.Args[1:])
	metricsPort, healthPort := loadTelemetryPorts(home)
	rpcEndpoint := resolveRPCAddress(home)

	// Start Prometheus metrics server on the configured port.
	StartPrometheusServer(metricsPort)

	// Start health check server with the configured port + RPC endpoint.
	nodeChecker := NewCometRPCChecker(rpcEndpoint)
	StartHealthCheckServer(healthPort, nodeChecker)

	// Distributed tracing is opt-in; a failed exporter never blocks the node.
	provider, err := telemetry.NewProvider(loadTracingConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "tracing disabled: %v\n", err)
	}

	rootCmd := cmd.NewRootCmd(false)

	execErr := svrcmd.Execute(rootCmd, "", app.DefaultNodeHome)

	if provider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		provider.Shutdown(ctx)
		cancel()
	}

	if execErr != nil {
		os.Exit(1)
	}
}
