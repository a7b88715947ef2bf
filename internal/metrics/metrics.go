// Package metrics holds the Prometheus collectors for lead imports and bulk
// operations. Collectors register with the default registry at init.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ImportRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estatecrm_import_rows_total",
			Help: "Imported CSV rows by outcome",
		},
		[]string{"outcome"},
	)

	Imports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estatecrm_imports_total",
			Help: "Import calls by duplicate policy and result",
		},
		[]string{"policy", "result"},
	)

	ImportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "estatecrm_import_duration_seconds",
			Help:    "Wall time of import calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"policy"},
	)

	BatchItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estatecrm_batch_items_total",
			Help: "Bulk operation items by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	ImportsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "estatecrm_imports_active",
			Help: "Imports currently holding a slot",
		},
	)
)

// ObserveImport records a finished import call. result is "ok", "partial",
// or "error".
func ObserveImport(policy, result string, d time.Duration) {
	Imports.WithLabelValues(policy, result).Inc()
	ImportDuration.WithLabelValues(policy).Observe(d.Seconds())
}
