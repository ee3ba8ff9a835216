package inference

import "github.com/prometheus/client_golang/prometheus"

var (
	modelLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "llmchat",
			Subsystem: "model",
			Name:      "loads_total",
			Help:      "Model load attempts by result",
		},
		[]string{"result"},
	)

	modelLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "llmchat",
			Subsystem: "model",
			Name:      "load_duration_seconds",
			Help:      "Time spent loading model weights",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	inferRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "llmchat",
			Subsystem: "inference",
			Name:      "requests_total",
			Help:      "Inference calls by result",
		},
		[]string{"result"},
	)

	tokensGeneratedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "llmchat",
			Subsystem: "inference",
			Name:      "tokens_generated_total",
			Help:      "Tokens produced by the model",
		},
	)

	generationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "llmchat",
			Subsystem: "inference",
			Name:      "generation_duration_seconds",
			Help:      "Wall time of a single generation",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		},
	)
)

func init() {
	prometheus.MustRegister(modelLoadsTotal, modelLoadDuration, inferRequestsTotal, tokensGeneratedTotal, generationDuration)
}

// resultLabel buckets an Infer outcome for the requests_total counter.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsModelLoad(err):
		return "load_error"
	case IsTooBusy(err):
		return "too_busy"
	case IsGeneration(err):
		return "generation_error"
	default:
		return "error"
	}
}
