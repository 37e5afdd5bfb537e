package main

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/obligo-chain/obligo/app"
	"github.com/obligo-chain/obligo/app/telemetry"
)

const (
	defaultMetricsPort = 36660
	defaultHealthPort  = 36661
	defaultRPCAddress  = "http://127.0.0.1:26657"
)

// resolveNodeHome returns the configured Obligo home directory.
// It honors OBLIGO_HOME and the --home flag if provided.
func resolveNodeHome(args []string) string {
	if home := os.Getenv("OBLIGO_HOME"); home != "" {
		return home
	}

	for i, arg := range args {
		if strings.HasPrefix(arg, "--home=") {
			return strings.SplitN(arg, "=", 2)[1]
		}
		if arg == "--home" && i+1 < len(args) {
			return args[i+1]
		}
	}

	return app.DefaultNodeHome
}

// readTOML loads a TOML file into a fresh viper instance. Missing or broken
// files return nil so callers fall through to their defaults.
func readTOML(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil
	}
	return v
}

// loadTelemetryPorts resolves the metrics and health listener ports.
// Precedence: environment variable, then app.toml, then the default.
func loadTelemetryPorts(home string) (metricsPort, healthPort int) {
	metricsPort = defaultMetricsPort
	healthPort = defaultHealthPort

	if v := readTOML(filepath.Join(home, "config", "app.toml")); v != nil {
		if p := v.GetInt("telemetry.metrics-port"); p > 0 {
			metricsPort = p
		}
		if p := v.GetInt("telemetry.health-port"); p > 0 {
			healthPort = p
		}
	}

	if p := portFromEnv("OBLIGO_TELEMETRY_METRICS_PORT"); p > 0 {
		metricsPort = p
	}
	if p := portFromEnv("OBLIGO_TELEMETRY_HEALTH_PORT"); p > 0 {
		healthPort = p
	}

	return metricsPort, healthPort
}

// portFromEnv parses a port number from an environment variable, returning 0
// when unset or out of range.
func portFromEnv(name string) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port <= 0 || port > 65535 {
		return 0
	}
	return port
}

// loadTracingConfig builds the tracing configuration from environment
// variables. Tracing is off unless OBLIGO_TRACING_ENABLED is set.
func loadTracingConfig() telemetry.Config {
	cfg := telemetry.Config{
		Enabled:        os.Getenv("OBLIGO_TRACING_ENABLED") == "true",
		JaegerEndpoint: "http://localhost:4318",
		SampleRate:     0.1,
		Environment:    "mainnet",
		ChainID:        "obligo-1",
	}

	if env := os.Getenv("OBLIGO_JAEGER_ENDPOINT"); env != "" {
		cfg.JaegerEndpoint = env
	}
	if env := os.Getenv("OBLIGO_TRACING_SAMPLE_RATE"); env != "" {
		if rate, err := strconv.ParseFloat(env, 64); err == nil && rate >= 0 && rate <= 1 {
			cfg.SampleRate = rate
		}
	}
	if env := os.Getenv("OBLIGO_ENVIRONMENT"); env != "" {
		cfg.Environment = env
	}
	if env := os.Getenv("OBLIGO_CHAIN_ID"); env != "" {
		cfg.ChainID = env
	}

	return cfg
}

// resolveRPCAddress chooses the RPC endpoint used by the health checker.
// It prefers OBLIGO_RPC_ENDPOINT, then config.toml's rpc.laddr, and finally
// the local default.
func resolveRPCAddress(home string) string {
	if env := os.Getenv("OBLIGO_RPC_ENDPOINT"); env != "" {
		return env
	}

	v := readTOML(filepath.Join(home, "config", "config.toml"))
	if v == nil {
		return defaultRPCAddress
	}
	laddr := v.GetString("rpc.laddr")
	if laddr == "" {
		return defaultRPCAddress
	}

	// rpc.laddr is usually "tcp://0.0.0.0:26657"; keep only host:port and
	// swap wildcard binds for a dialable host.
	hostPort := laddr
	if strings.Contains(laddr, "://") {
		if parsed, err := url.Parse(laddr); err == nil && parsed.Host != "" {
			hostPort = parsed.Host
		}
	}
	if hostPort = sanitizeHostPort(hostPort); hostPort == "" {
		return defaultRPCAddress
	}
	return fmt.Sprintf("http://%s", hostPort)
}

func sanitizeHostPort(raw string) string {
	hostPort := strings.TrimSpace(raw)
	if hostPort == "" {
		return ""
	}

	host, port, err := net.SplitHostPort(hostPort)
	if err != nil {
		return hostPort
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}

	return net.JoinHostPort(host, port)
}
