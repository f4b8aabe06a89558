package metrics

import (
	"time"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rpcRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rpc_client",
		Name:      "operations_total",
		Help:      "Count of indexer and node RPC operations.",
	}, []string{"operation", "backend", "network", "status"})
	rpcRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "rpc_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of indexer and node RPC operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "backend", "network", "status"})
)

// RPCClient tracks metrics for calls to one RPC backend, e.g. "sandshrew" or "bitcoind".
type RPCClient struct {
	backend string
	network string
}

// NewRPCClient constructs a metrics collector for RPC calls.
func NewRPCClient(backend string, network model.Network) *RPCClient {
	return &RPCClient{backend: orUnknown(backend), network: orUnknown(string(network))}
}

// Observe records a single RPC call outcome and duration.
func (m RPCClient) Observe(operation string, err error, started time.Time) {
	s := status(err)
	rpcRequestsTotal.WithLabelValues(operation, m.backend, m.network, s).Inc()
	rpcRequestDuration.WithLabelValues(operation, m.backend, m.network, s).Observe(time.Since(started).Seconds())
}
