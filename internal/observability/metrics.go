package observability

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

var (
	registerOnce sync.Once

	requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bukubrow",
			Name:      "requests_total",
			Help:      "Native messaging requests by method and outcome.",
		},
		[]string{"method", "outcome"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bukubrow",
			Name:      "request_duration_seconds",
			Help:      "Time spent routing one request, storage included.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)
	frameBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bukubrow",
			Name:      "frame_bytes_total",
			Help:      "Bytes moved over the native messaging pipe, length prefix included.",
		},
		[]string{"direction"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(requests, requestDuration, frameBytes)
	})
}

func RecordRequest(method, outcome string, duration time.Duration) {
	RegisterMetrics()
	requests.WithLabelValues(method, outcome).Inc()
	requestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

func RecordFrame(direction string, n int) {
	RegisterMetrics()
	frameBytes.WithLabelValues(direction).Add(float64(n))
}

// WriteTextfile dumps the default registry in the node_exporter textfile
// format. An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	RegisterMetrics()
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("observability: write textfile %s: %w", path, err)
	}
	return nil
}
