package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricsOnce         sync.Once
	catalogLoadsTotal   *prometheus.CounterVec
	selectionCommits    *prometheus.CounterVec
	selectionCommitTime prometheus.Histogram
)

func initMetrics() {
	metricsOnce.Do(func() {
		catalogLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xlink",
			Subsystem: "gallery",
			Name:      "catalog_loads_total",
			Help:      "Template catalog loads by origin (remote, file or fallback)",
		}, []string{"origin"})

		selectionCommits = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xlink",
			Subsystem: "gallery",
			Name:      "selection_commits_total",
			Help:      "Template selection commits by outcome",
		}, []string{"outcome"})

		selectionCommitTime = promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "xlink",
			Subsystem: "gallery",
			Name:      "selection_commit_duration_seconds",
			Help:      "Time spent persisting a template selection, fallback included",
			Buckets:   prometheus.DefBuckets,
		})
	})
}

func CatalogLoaded(origin string) {
	initMetrics()
	catalogLoadsTotal.WithLabelValues(origin).Inc()
}

func SelectionCommitted(outcome string, seconds float64) {
	initMetrics()
	selectionCommits.WithLabelValues(outcome).Inc()
	selectionCommitTime.Observe(seconds)
}
