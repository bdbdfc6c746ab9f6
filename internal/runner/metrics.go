package runner

import "github.com/prometheus/client_golang/prometheus"

var (
	runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "energyd",
			Subsystem: "model",
			Name:      "run_duration_seconds",
			Help:      "Duration of model evaluations in seconds",
			Buckets:   []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1},
		},
		[]string{"model"},
	)

	cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "energyd",
			Subsystem: "model",
			Name:      "cache_hits_total",
			Help:      "Predictions served from the runner cache",
		},
		[]string{"model"},
	)
)

func init() {
	prometheus.MustRegister(runDuration, cacheHits)
}
