package inference

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("elevendx.inference")

var (
	// inferenceRuns counts Infer calls by outcome: ok, degenerate, cancelled, error.
	inferenceRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "elevendx_inference_runs_total",
		Help: "Total inference runs by result",
	}, []string{"result"})

	// inferenceDuration tracks wall time per Infer call.
	inferenceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "elevendx_inference_duration_seconds",
		Help:    "Inference duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
	})

	// inferenceTrials counts completed samples.
	inferenceTrials = promauto.NewCounter(prometheus.CounterOpts{
		Name: "elevendx_inference_trials_total",
		Help: "Total likelihood-weighted trials drawn",
	})
)
