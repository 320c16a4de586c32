package prometheus

import (
	"strconv"
	"time"

	"github.com/SscSPs/ledger_bridge/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements metrics.Collector for Prometheus.
type PrometheusCollector struct {
	gatewayCalls   *prometheus.CounterVec
	gatewayLatency *prometheus.HistogramVec
	circuitState   *prometheus.GaugeVec
	batchOutcomes  *prometheus.CounterVec
	searchFetched  prometheus.Histogram
	searchReturned prometheus.Histogram
}

// NewPrometheusCollector creates a collector whose metrics are prefixed with namespace.
func NewPrometheusCollector(namespace string) *PrometheusCollector {
	return &PrometheusCollector{
		gatewayCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gateway_calls_total",
				Help:      "Total number of remote ledger calls by operation, document type and success",
			},
			[]string{"operation", "doc_type", "success"},
		),
		gatewayLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "gateway_call_duration_seconds",
				Help:      "Latency of remote ledger calls",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		circuitState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "gateway_circuit_state",
				Help:      "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"name"},
		),
		batchOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batch_outcomes_total",
				Help:      "Total number of batch items by outcome kind",
			},
			[]string{"kind"},
		),
		searchFetched: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_fetched_records",
			Help:      "Records returned by the gateway per bank transaction search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 6),
		}),
		searchReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_returned_records",
			Help:      "Records kept after the amount filter per bank transaction search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 6),
		}),
	}
}

// Register registers all metrics with the given registerer.
func (pc *PrometheusCollector) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		pc.gatewayCalls,
		pc.gatewayLatency,
		pc.circuitState,
		pc.batchOutcomes,
		pc.searchFetched,
		pc.searchReturned,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordGatewayCall records one remote ledger call.
func (pc *PrometheusCollector) RecordGatewayCall(operation, docType string, success bool, duration time.Duration) {
	pc.gatewayCalls.WithLabelValues(operation, docType, strconv.FormatBool(success)).Inc()
	pc.gatewayLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCircuitState records a circuit breaker transition.
func (pc *PrometheusCollector) RecordCircuitState(name string, state metrics.CircuitState) {
	pc.circuitState.WithLabelValues(name).Set(float64(state))
}

// RecordBatchOutcome records the outcome of one batch item.
func (pc *PrometheusCollector) RecordBatchOutcome(kind string) {
	pc.batchOutcomes.WithLabelValues(kind).Inc()
}

// RecordSearch records the result sizes of one search.
func (pc *PrometheusCollector) RecordSearch(fetched, returned int) {
	pc.searchFetched.Observe(float64(fetched))
	pc.searchReturned.Observe(float64(returned))
}

var _ metrics.Collector = (*PrometheusCollector)(nil)
