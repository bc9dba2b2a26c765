// SPDX-License-Identifier: MIT

// Package metrics provides Prometheus metrics for the game catalog.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Labels stay low-cardinality: no UUIDs, locations or request IDs.

var (
	// DecodeDiagnosticsTotal counts per-field decode diagnostics.
	DecodeDiagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameinfo_decode_diagnostics_total",
		Help: "Total number of per-field decode diagnostics, by field and kind.",
	}, []string{"field", "kind"})

	// RecordsLoadedTotal counts records produced by catalog and signature reads.
	RecordsLoadedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameinfo_records_loaded_total",
		Help: "Total number of records decoded from documents, by document form.",
	}, []string{"form"})

	// QueryTotal counts projection queries by request form and outcome.
	QueryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameinfo_query_total",
		Help: "Total number of projection queries, by form (fields/predicate) and result.",
	}, []string{"form", "result"})

	// DocstoreOpsTotal counts raw text reads and writes per backend.
	DocstoreOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameinfo_docstore_ops_total",
		Help: "Total number of document store operations, by backend, op and result.",
	}, []string{"backend", "op", "result"})

	// CatalogRecords tracks the size of the live catalog snapshot.
	CatalogRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gameinfo_catalog_records",
		Help: "Number of records in the live catalog snapshot.",
	})
)

// RecordDiagnostic counts one decode diagnostic.
func RecordDiagnostic(field, kind string) {
	DecodeDiagnosticsTotal.WithLabelValues(field, kind).Inc()
}

// RecordLoaded counts n records decoded from a document of the given form.
func RecordLoaded(form string, n int) {
	RecordsLoadedTotal.WithLabelValues(form).Add(float64(n))
}

// RecordQuery counts one projection query.
func RecordQuery(form string, err error) {
	QueryTotal.WithLabelValues(form, result(err)).Inc()
}

// RecordDocstoreOp counts one document store operation.
func RecordDocstoreOp(backend, op string, err error) {
	DocstoreOpsTotal.WithLabelValues(backend, op, result(err)).Inc()
}

// SetCatalogRecords sets the live snapshot size.
func SetCatalogRecords(n int) {
	CatalogRecords.Set(float64(n))
}

// GetCatalogRecords returns the current value of the gauge (for testing).
func GetCatalogRecords() float64 {
	var m dto.Metric
	if err := CatalogRecords.Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
