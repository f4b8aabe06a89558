package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	walletOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "wallet",
		Name:      "operations_total",
		Help:      "Count of wallet session operations.",
	}, []string{"backend", "operation", "status"})
	walletOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "wallet",
		Name:      "operation_duration_seconds",
		Help:      "Duration of wallet session operations, including user confirmation.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"backend", "operation", "status"})

	bridgeCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "wallet_bridge",
		Name:      "calls_total",
		Help:      "Count of calls relayed to the wallet bridge page.",
	}, []string{"provider", "method", "status"})
	bridgeCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "wallet_bridge",
		Name:      "call_duration_seconds",
		Help:      "Duration of calls relayed to the wallet bridge page.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"provider", "method", "status"})
	bridgeConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "wallet_bridge",
		Name:      "page_connected",
		Help:      "1 while a bridge page is attached.",
	})
)

// Wallet tracks signer session operations per backend.
type Wallet struct{}

func NewWallet() *Wallet {
	return &Wallet{}
}

func (m Wallet) Observe(backend, operation string, err error, started time.Time) {
	s := status(err)
	walletOperationsTotal.WithLabelValues(orUnknown(backend), operation, s).Inc()
	walletOperationDuration.WithLabelValues(orUnknown(backend), operation, s).Observe(time.Since(started).Seconds())
}

// Bridge tracks the websocket wallet bridge.
type Bridge struct{}

func NewBridge() *Bridge {
	return &Bridge{}
}

func (m Bridge) Observe(provider, method string, err error, started time.Time) {
	s := status(err)
	bridgeCallsTotal.WithLabelValues(provider, method, s).Inc()
	bridgeCallDuration.WithLabelValues(provider, method, s).Observe(time.Since(started).Seconds())
}

func (m Bridge) SetConnected(connected bool) {
	if connected {
		bridgeConnected.Set(1)
		return
	}
	bridgeConnected.Set(0)
}
