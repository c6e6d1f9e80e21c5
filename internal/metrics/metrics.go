// Package metrics records per-archive download metrics in a Prometheus
// registry and writes them out in the node_exporter textfile format, so
// scheduled oszdl runs can be scraped after the fact.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/adamwoolhether/oszdl/internal/fetch"
)

const namespace = "oszdl"

const (
	statusCompleted = "completed"
	statusSkipped   = "skipped"
	statusFailed    = "failed"

	kindNone = "none"
)

// Recorder implements [fetch.Observer].
type Recorder struct {
	registry *prometheus.Registry

	items       *prometheus.CounterVec
	bytes       prometheus.Counter
	duration    prometheus.Histogram
	archiveSize prometheus.Histogram
}

// New returns a Recorder backed by its own registry, leaving the global
// default registry untouched.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		items: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "items_total",
				Help:      "Archives processed, by status and failure kind.",
			},
			[]string{"status", "kind"},
		),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloaded_bytes_total",
			Help:      "Bytes written to disk for completed archives.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "item_duration_seconds",
			Help:      "Wall time spent per archive.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		archiveSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "archive_size_bytes",
			Help:      "Size of downloaded archives.",
			Buckets: []float64{
				1 << 20,   // 1MB
				5 << 20,   // 5MB
				10 << 20,  // 10MB
				25 << 20,  // 25MB
				50 << 20,  // 50MB
				100 << 20, // 100MB
			},
		}),
	}

	r.registry.MustRegister(r.items, r.bytes, r.duration, r.archiveSize)

	return r
}

// Registry exposes the underlying registry, e.g. for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Observe records one finished archive.
func (r *Recorder) Observe(o fetch.Outcome, elapsed time.Duration) {
	r.duration.Observe(elapsed.Seconds())

	switch {
	case o.Skipped:
		r.items.WithLabelValues(statusSkipped, kindNone).Inc()
	case o.Completed():
		r.items.WithLabelValues(statusCompleted, kindNone).Inc()
		r.bytes.Add(float64(o.Bytes))
		r.archiveSize.Observe(float64(o.Bytes))
	default:
		kind := fetch.KindUnknown
		if ie := o.ItemError(); ie != nil {
			kind = ie.Kind
		}
		r.items.WithLabelValues(statusFailed, kind.String()).Inc()
	}
}

// WriteFile writes every metric to path in the text exposition format.
// The write goes through a temp file so a scraper never sees half a file.
func (r *Recorder) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
