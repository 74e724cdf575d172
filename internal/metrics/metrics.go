package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Generation outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeError     = "error"
	OutcomeTimeout   = "timeout"
	OutcomeCancelled = "cancelled"
)

// Recorder records the generation lifecycle metrics.
type Recorder interface {
	ObserveGeneration(outcome string, attempt int, duration time.Duration)
	ObserveExport(success bool)
}

type noop struct{}

// Noop recorder doesn't record anything.
var Noop Recorder = noop{}

func (noop) ObserveGeneration(string, int, time.Duration) {}
func (noop) ObserveExport(bool)                           {}

// PrometheusRecorder is a Prometheus backed Recorder.
type PrometheusRecorder struct {
	generations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	exports     *prometheus.CounterVec
}

// NewPrometheusRecorder creates the recorder and registers its metrics on reg.
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	r := &PrometheusRecorder{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "webgen",
			Name:      "generations_total",
			Help:      "Total number of finished website generation requests by outcome and attempt kind.",
		}, []string{"outcome", "retry"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "webgen",
			Name:      "generation_duration_seconds",
			Help:      "Time from submission to the end of a website generation request.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		}, []string{"outcome"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "webgen",
			Name:      "exports_total",
			Help:      "Total number of artifact exports by result.",
		}, []string{"success"}),
	}

	for _, c := range []prometheus.Collector{r.generations, r.duration, r.exports} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("could not register metric: %w", err)
		}
	}

	return r, nil
}

// ObserveGeneration records a finished generation.
func (r *PrometheusRecorder) ObserveGeneration(outcome string, attempt int, duration time.Duration) {
	r.generations.WithLabelValues(outcome, strconv.FormatBool(attempt > 1)).Inc()
	r.duration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObserveExport records an export.
func (r *PrometheusRecorder) ObserveExport(success bool) {
	r.exports.WithLabelValues(strconv.FormatBool(success)).Inc()
}

// WriteTextfile writes the gathered metrics to path in the Prometheus text
// format, ready for a node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("could not write metrics textfile: %w", err)
	}
	return nil
}
