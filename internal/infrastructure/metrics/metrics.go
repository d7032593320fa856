// Package metrics exposes the Prometheus instrumentation for the control
// plane: content writes, sync passes, and remote platform calls.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the collectors the services record into.
type Metrics struct {
	ContentUpdates   *prometheus.CounterVec
	SyncSlotResults  *prometheus.CounterVec
	RemoteCallErrors *prometheus.CounterVec
	SyncPassDuration prometheus.Histogram
}

// New registers the collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ContentUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "safewebedit_content_updates_total",
			Help: "Content writes applied, labeled by platform and outcome.",
		}, []string{"platform", "outcome"}),
		SyncSlotResults: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "safewebedit_sync_slot_results_total",
			Help: "Per-slot sheet sync outcomes (updated, unchanged, skipped, failed).",
		}, []string{"result"}),
		RemoteCallErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "safewebedit_remote_call_errors_total",
			Help: "Remote platform call failures, labeled by error kind.",
		}, []string{"kind"}),
		SyncPassDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "safewebedit_sync_pass_duration_seconds",
			Help:    "Wall time of one organization-wide sheet sync pass.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// NewNop returns metrics bound to a throwaway registry, for tests.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
