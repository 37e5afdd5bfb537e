package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the pricefeed module
type Metrics struct {
	// Round delivery metrics
	RoundsReceived  *prometheus.CounterVec
	RoundsSubmitted *prometheus.CounterVec
	LatestAnswer    *prometheus.GaugeVec

	// Relay metrics
	RelaysSent    *prometheus.CounterVec
	RelayAcks     *prometheus.CounterVec
	RelayTimeouts *prometheus.CounterVec
	RelayFeesPaid *prometheus.CounterVec

	// Receive-path rejections
	PacketRejections *prometheus.CounterVec
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// NewMetrics creates and registers pricefeed metrics (singleton pattern)
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			RoundsReceived: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "obligo",
					Subsystem: "pricefeed",
					Name:      "rounds_received_total",
					Help:      "Price rounds received through the relay",
				},
				[]string{"feed_id"},
			),
			RoundsSubmitted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "obligo",
					Subsystem: "pricefeed",
					Name:      "rounds_submitted_total",
					Help:      "Price rounds submitted on local feeds",
				},
				[]string{"feed_id"},
			),
			LatestAnswer: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "obligo",
					Subsystem: "pricefeed",
					Name:      "latest_answer",
					Help:      "Latest delivered answer per feed",
				},
				[]string{"feed_id"},
			),
			RelaysSent: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "obligo",
					Subsystem: "pricefeed",
					Name:      "relays_sent_total",
					Help:      "Price rounds relayed to other chains",
				},
				[]string{"channel", "feed_id"},
			),
			RelayAcks: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "obligo",
					Subsystem: "pricefeed",
					Name:      "relay_acks_total",
					Help:      "Relay acknowledgements by result",
				},
				[]string{"channel", "result"},
			),
			RelayTimeouts: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "obligo",
					Subsystem: "pricefeed",
					Name:      "relay_timeouts_total",
					Help:      "Relay packets that timed out",
				},
				[]string{"channel", "feed_id"},
			),
			RelayFeesPaid: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "obligo",
					Subsystem: "pricefeed",
					Name:      "relay_fees_paid_total",
					Help:      "Relay fees collected by denom",
				},
				[]string{"denom"},
			),
			PacketRejections: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "obligo",
					Subsystem: "pricefeed",
					Name:      "packet_rejections_total",
					Help:      "Inbound relay packets rejected",
				},
				[]string{"channel", "reason"},
			),
		}
	})
	return metrics
}

// GetMetrics returns the singleton pricefeed metrics instance
func GetMetrics() *Metrics {
	if metrics == nil {
		return NewMetrics()
	}
	return metrics
}
