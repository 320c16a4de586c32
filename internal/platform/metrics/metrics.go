package metrics

import "time"

// Collector records operational metrics of the bridge.
// Implementations can export to Prometheus or any other backend.
type Collector interface {
	// RecordGatewayCall records one remote ledger call.
	RecordGatewayCall(operation, docType string, success bool, duration time.Duration)

	// RecordCircuitState records a circuit breaker transition.
	RecordCircuitState(name string, state CircuitState)

	// RecordBatchOutcome records the outcome of one batch item.
	RecordBatchOutcome(kind string)

	// RecordSearch records how many records the gateway returned and how many survived the residual filter.
	RecordSearch(fetched, returned int)
}

// CircuitState represents the state of a circuit breaker.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// NoOpCollector discards every metric. It is the default when metrics are not needed.
type NoOpCollector struct{}

func (NoOpCollector) RecordGatewayCall(operation, docType string, success bool, duration time.Duration) {
}
func (NoOpCollector) RecordCircuitState(name string, state CircuitState) {}
func (NoOpCollector) RecordBatchOutcome(kind string)                     {}
func (NoOpCollector) RecordSearch(fetched, returned int)                 {}

var _ Collector = NoOpCollector{}
