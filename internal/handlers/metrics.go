package handlers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var operationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "faceblur_operation_duration_seconds",
		Help:    "Time spent decoding, processing and encoding an image, by operation.",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 14),
	},
	[]string{"operation"},
)

func observe(operation string, start time.Time) {
	operationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
