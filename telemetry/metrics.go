// Package telemetry provides Prometheus metrics and OpenTelemetry tracing
// setup for the archiver.
package telemetry

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	LinesRead        prometheus.Counter
	MessagesWritten  prometheus.Counter
	MessagesFiltered prometheus.Counter
	Reconnects       prometheus.Counter
	IndexConflicts   prometheus.Counter
	IndexErrors      prometheus.Counter

	// Histograms (seconds)
	IndexRequestDuration prometheus.Observer
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		LinesRead = promauto.NewCounter(prometheus.CounterOpts{Name: "chat_lines_read_total", Help: "Number of raw lines read from the chat transport"})
		MessagesWritten = promauto.NewCounter(prometheus.CounterOpts{Name: "chat_messages_written_total", Help: "Number of messages written to the output sink"})
		MessagesFiltered = promauto.NewCounter(prometheus.CounterOpts{Name: "chat_messages_filtered_total", Help: "Number of lines dropped by the ignore filter"})
		Reconnects = promauto.NewCounter(prometheus.CounterOpts{Name: "chat_reconnects_total", Help: "Number of reconnect attempts after a session failure"})
		IndexConflicts = promauto.NewCounter(prometheus.CounterOpts{Name: "chat_index_conflicts_total", Help: "Number of index requests answered with a conflict (document already exists)"})
		IndexErrors = promauto.NewCounter(prometheus.CounterOpts{Name: "chat_index_errors_total", Help: "Number of index requests that failed with a non-conflict error"})
		IndexRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "chat_index_request_duration_seconds", Help: "Elasticsearch index request duration seconds", Buckets: prometheus.DefBuckets})
	})
}

// TimeFunc measures the duration of fn and records in observer if non-nil.
func TimeFunc(obs prometheus.Observer, fn func()) time.Duration {
	start := time.Now()
	fn()
	d := time.Since(start)
	if obs != nil {
		obs.Observe(d.Seconds())
	}
	return d
}
