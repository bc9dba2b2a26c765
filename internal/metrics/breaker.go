// SPDX-License-Identifier: MIT

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

var (
	breakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gameinfo_breaker_state",
		Help: "Circuit breaker state by component (1 for the active state, 0 otherwise).",
	}, []string{"component", "state"})

	breakerTrips = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameinfo_breaker_trips_total",
		Help: "Total number of circuit breaker trips (transitions to open), by component and reason.",
	}, []string{"component", "reason"})
)

var breakerStates = []string{"closed", "half-open", "open"}

// SetBreakerState marks state as the active breaker state of component.
func SetBreakerState(component, state string) {
	for _, s := range breakerStates {
		value := 0.0
		if s == state {
			value = 1.0
		}
		breakerState.WithLabelValues(component, s).Set(value)
	}
}

// RecordBreakerTrip counts one transition to open.
func RecordBreakerTrip(component, reason string) {
	breakerTrips.WithLabelValues(component, reason).Inc()
}

// GetBreakerState returns the gauge for one component and state (for testing).
func GetBreakerState(component, state string) float64 {
	var m dto.Metric
	if err := breakerState.WithLabelValues(component, state).Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}
