package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pktdecode",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pktdecode",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	transmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pktdecode",
			Subsystem: "pipeline",
			Name:      "transmissions_total",
			Help:      "Transmissions processed, by outcome.",
		},
		[]string{"outcome"},
	)
	packetsDecoded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pktdecode",
			Subsystem: "pipeline",
			Name:      "packets_total",
			Help:      "Packets decoded across all transmissions.",
		},
	)
	decodeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pktdecode",
			Subsystem: "pipeline",
			Name:      "process_duration_seconds",
			Help:      "Time to parse, decode and evaluate one transmission.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		},
		[]string{"outcome"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, transmissions, packetsDecoded, decodeDuration)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordTransmission counts one processed transmission. outcome is "ok" or
// the name of the stage that failed.
func RecordTransmission(outcome string, packets int, duration time.Duration) {
	RegisterMetrics()
	transmissions.WithLabelValues(outcome).Inc()
	decodeDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if packets > 0 {
		packetsDecoded.Add(float64(packets))
	}
}
