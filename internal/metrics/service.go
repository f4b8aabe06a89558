package metrics

import (
	"time"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	serviceOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "service",
		Name:      "operations_total",
		Help:      "Count of planned and executed alkanes operations.",
	}, []string{"operation", "stage", "network", "status"})
	serviceOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "service",
		Name:      "operation_duration_seconds",
		Help:      "Duration of planning and execution stages.",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"operation", "stage", "network", "status"})
	servicePlanFee = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "service",
		Name:      "plan_fee_sats",
		Help:      "Fees of assembled plans in satoshis.",
		Buckets:   prometheus.ExponentialBuckets(100, 2, 14),
	}, []string{"operation", "network"})
	servicePlanVSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "service",
		Name:      "plan_vsize_vbytes",
		Help:      "Estimated virtual size of assembled plans.",
		Buckets:   prometheus.LinearBuckets(100, 100, 12),
	}, []string{"operation", "network"})
)

// Service tracks the orchestration service for one network.
type Service struct {
	network string
}

func NewService(network model.Network) *Service {
	return &Service{network: orUnknown(string(network))}
}

// Observe records one plan or execute stage.
func (m Service) Observe(operation, stage string, err error, started time.Time) {
	s := status(err)
	serviceOperationsTotal.WithLabelValues(orUnknown(operation), stage, m.network, s).Inc()
	serviceOperationDuration.WithLabelValues(orUnknown(operation), stage, m.network, s).Observe(time.Since(started).Seconds())
}

// ObservePlan records the fee and size of an assembled plan.
func (m Service) ObservePlan(operation string, fee, vsize uint64) {
	servicePlanFee.WithLabelValues(orUnknown(operation), m.network).Observe(float64(fee))
	servicePlanVSize.WithLabelValues(orUnknown(operation), m.network).Observe(float64(vsize))
}
