package metrics

import (
	"time"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	clickhouseRepositoryRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "clickhouse_repository",
		Name:      "operations_total",
		Help:      "Count of broadcast journal operations.",
	}, []string{"operation", "network", "status"})
	clickhouseRepositoryRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "clickhouse_repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of broadcast journal operations.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"operation", "network", "status"})
)

// ClickhouseRepository tracks metrics for ClickHouse journal operations.
type ClickhouseRepository struct{}

func NewClickhouseRepository() *ClickhouseRepository {
	return &ClickhouseRepository{}
}

// Observe records duration and status of a repository operation.
func (m ClickhouseRepository) Observe(operation string, network model.Network, err error, started time.Time) {
	n := orUnknown(string(network))
	s := status(err)
	clickhouseRepositoryRequestsTotal.WithLabelValues(operation, n, s).Inc()
	clickhouseRepositoryRequestDuration.WithLabelValues(operation, n, s).Observe(time.Since(started).Seconds())
}
