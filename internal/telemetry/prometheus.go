package telemetry

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// PromRecorder counts usage events as Prometheus metrics.
type PromRecorder struct {
	events  *prometheus.CounterVec
	answers *prometheus.CounterVec
	scores  prometheus.Histogram
}

// NewPromRecorder registers the practice metrics on reg.
func NewPromRecorder(reg prometheus.Registerer) *PromRecorder {
	r := &PromRecorder{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "practice_events_total",
				Help: "Total number of practice usage events",
			},
			[]string{"event"}, // practice_started, answer_submitted, practice_finished, practice_reset
		),
		answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "practice_answers_total",
				Help: "Total number of submitted answers",
			},
			[]string{"correct"},
		),
		scores: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "practice_score_percent",
				Help:    "Final score of finished runs, in percent",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
		),
	}
	reg.MustRegister(r.events, r.answers, r.scores)
	return r
}

func (r *PromRecorder) Record(_ context.Context, ev Event) {
	r.events.WithLabelValues(ev.Name).Inc()
	switch ev.Name {
	case AnswerSubmitted:
		if ev.Correct != nil {
			r.answers.WithLabelValues(strconv.FormatBool(*ev.Correct)).Inc()
		}
	case PracticeFinished:
		if ev.Total > 0 {
			r.scores.Observe(float64(ev.Score) / float64(ev.Total) * 100)
		}
	}
}
