// Package metrics holds the Prometheus collectors of the transcription pipeline.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"recorder-whisper/internal/app/api"
)

const namespace = "scribe"

// Status label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusEmpty   = "empty"
)

var (
	// stageDuration is a histogram of pipeline stage duration in seconds.
	stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Histogram of pipeline stage duration in seconds",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"stage", "status"}, // stage: stage, convert, transcribe, persist, cleanup
	)

	// runsTotal counts finished pipeline runs.
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of transcription runs",
		},
		[]string{"source", "status"}, // source: recorded, upload
	)

	// runsActive is a gauge of runs in progress.
	runsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "runs_active",
			Help:      "Number of transcription runs in progress",
		},
	)

	// providerRequestDuration is a histogram of speech-to-text call duration.
	providerRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Duration of speech-to-text provider calls in seconds",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"provider", "status"},
	)

	// historyAppendsTotal counts history writes.
	historyAppendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_appends_total",
			Help:      "Total number of history appends",
		},
		[]string{"status"},
	)

	// allMetrics is a list of all metrics for registration.
	allMetrics = []prometheus.Collector{
		stageDuration,
		runsTotal,
		runsActive,
		providerRequestDuration,
		historyAppendsTotal,
	}
)

// NewRegistry returns a registry holding the pipeline metrics plus the Go
// runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	for _, collector := range allMetrics {
		reg.MustRegister(collector)
	}
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler serves reg in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// RecordStage records the duration of one pipeline stage.
func RecordStage(stage, status string, duration time.Duration) {
	stageDuration.WithLabelValues(stage, status).Observe(duration.Seconds())
}

// RecordRunStart records a run start.
func RecordRunStart() {
	runsActive.Inc()
}

// RecordRunEnd records a run completion.
func RecordRunEnd(source, status string) {
	runsActive.Dec()
	runsTotal.WithLabelValues(source, status).Inc()
}

// RecordHistoryAppend records a history write.
func RecordHistoryAppend(status string) {
	historyAppendsTotal.WithLabelValues(status).Inc()
}

// RecordProviderRequest records a speech-to-text call.
func RecordProviderRequest(provider, status string, duration time.Duration) {
	providerRequestDuration.WithLabelValues(provider, status).Observe(duration.Seconds())
}

type instrumentedTranscriber struct {
	provider string
	inner    api.Transcriber
}

// InstrumentTranscriber times every call of inner under the provider label.
func InstrumentTranscriber(provider string, inner api.Transcriber) api.Transcriber {
	return &instrumentedTranscriber{provider: provider, inner: inner}
}

func (t *instrumentedTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	start := time.Now()
	text, err := t.inner.Transcript(ctx, inputFilePath)

	status := StatusSuccess
	switch {
	case err != nil:
		status = StatusError
	case text == "":
		status = StatusEmpty
	}
	RecordProviderRequest(t.provider, status, time.Since(start))
	return text, err
}
