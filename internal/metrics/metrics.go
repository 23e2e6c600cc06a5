package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline stage labels.
const (
	StageFetch       = "fetch"
	StageCredibility = "credibility"
	StageExtraction  = "extraction"
	StageMatching    = "matching"
	StageSentiment   = "sentiment"
)

// Metrics provides observability for the screening pipeline and result storage.
type Metrics struct {
	// Stage latencies, failed or not
	StageLatency *prometheus.HistogramVec

	StageFailures *prometheus.CounterVec

	// Screening outcomes: definite_match, manual_review, match, no_match
	ScreeningOutcome *prometheus.CounterVec

	ResultsSaved prometheus.Counter

	SentimentSkipped prometheus.Counter
}

// New registers every metric on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		StageLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "screener_stage_duration_seconds",
			Help:    "Duration of screening pipeline stages",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"stage"}),

		StageFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "screener_stage_failures_total",
			Help: "Total pipeline stage failures by stage",
		}, []string{"stage"}),

		ScreeningOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "screener_outcomes_total",
			Help: "Completed screenings by outcome",
		}, []string{"outcome"}),

		ResultsSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "screener_results_saved_total",
			Help: "Total screening results persisted",
		}),

		SentimentSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "screener_sentiment_unavailable_total",
			Help: "Screenings with sentiment targets where no assessment succeeded",
		}),
	}
}

// ObserveStage records how long a stage took and whether it failed.
func (m *Metrics) ObserveStage(stage string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.StageLatency.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		m.StageFailures.WithLabelValues(stage).Inc()
	}
}

// IncrementOutcome records the outcome of a completed screening.
func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.ScreeningOutcome.WithLabelValues(outcome).Inc()
	}
}

// IncrementResultsSaved counts a persisted result.
func (m *Metrics) IncrementResultsSaved() {
	if m != nil {
		m.ResultsSaved.Inc()
	}
}

// IncrementSentimentSkipped counts a sentiment batch that produced nothing.
func (m *Metrics) IncrementSentimentSkipped() {
	if m != nil {
		m.SentimentSkipped.Inc()
	}
}
