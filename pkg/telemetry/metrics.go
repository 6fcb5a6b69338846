// Package telemetry exposes prometheus metrics for batch dispatch and game
// collection.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricBatchesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gauntlet",
		Name:      "batches_started_total",
		Help:      "Number of sub-batches dispatched to workers.",
	})
	metricBatchesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gauntlet",
		Name:      "batches_failed_total",
		Help:      "Number of sub-batches that failed fatally.",
	})
	metricGamesCollected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gauntlet",
		Name:      "games_collected_total",
		Help:      "Count of game outcomes merged by the coordinator.",
	})
	metricBatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gauntlet",
		Name:      "batch_duration_seconds",
		Help:      "Wall-clock duration of completed sub-batches.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
	})
)

// RecordBatchStart increments the dispatched sub-batch counter.
func RecordBatchStart() {
	metricBatchesStarted.Inc()
}

// RecordBatchFailure increments the failed sub-batch counter.
func RecordBatchFailure() {
	metricBatchesFailed.Inc()
}

// RecordGamesCollected adds merged outcomes to the game counter.
func RecordGamesCollected(count int) {
	if count > 0 {
		metricGamesCollected.Add(float64(count))
	}
}

// ObserveBatchDuration records the wall-clock time of a finished sub-batch.
func ObserveBatchDuration(d time.Duration) {
	metricBatchDuration.Observe(d.Seconds())
}
