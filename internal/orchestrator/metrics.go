package orchestrator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	outcomeAnswered   = "answered"
	outcomeNoResponse = "no_response"
	outcomeFault      = "fault"
	outcomeOK         = "ok"
	outcomeError      = "error"
)

var (
	specialistCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_specialist_calls_total",
			Help: "Specialist calls by agent and outcome",
		},
		[]string{"agent", "outcome"},
	)
	specialistDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "concierge_specialist_call_duration_seconds",
			Help:    "Specialist call latency in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"agent"},
	)
	mergeCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_merge_calls_total",
			Help: "Merge completion calls by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(specialistCalls, specialistDuration, mergeCalls)
}

func observeCall(res SpecialistResult, elapsed time.Duration) {
	outcome := outcomeAnswered
	switch {
	case res.Failed():
		outcome = outcomeFault
	case !res.Found:
		outcome = outcomeNoResponse
	}
	specialistCalls.WithLabelValues(res.Agent, outcome).Inc()
	specialistDuration.WithLabelValues(res.Agent).Observe(elapsed.Seconds())
}

func observeMerge(err error) {
	if err != nil {
		mergeCalls.WithLabelValues(outcomeError).Inc()
		return
	}
	mergeCalls.WithLabelValues(outcomeOK).Inc()
}
