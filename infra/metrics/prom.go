package metrics

import (
	"strconv"

	coremetrics "github.com/planvik/rosterd/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records roster events in Prometheus metrics.
type PromSink struct {
	saves       *prometheus.CounterVec
	saveLatency *prometheus.HistogramVec
	conflicts   *prometheus.CounterVec
	lookups     *prometheus.CounterVec
}

// NewPromSink registers roster metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	saves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_saves_total",
		Help: "Total number of schedule save attempts",
	}, []string{"facility_id", "created", "outcome"})
	saveLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roster_save_latency_seconds",
		Help:    "Time between save request and remote acknowledgment",
		Buckets: prometheus.DefBuckets,
	}, []string{"facility_id", "outcome"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_conflict_prompts_total",
		Help: "Total number of unsaved-work conflict resolutions",
	}, []string{"resolution"})
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_period_lookups_total",
		Help: "Total number of period lookups against the schedule index",
	}, []string{"mode", "result"})

	collectors := []prometheus.Collector{saves, saveLatency, conflicts, lookups}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			collectors[i] = are.ExistingCollector
		}
	}
	return &PromSink{
		saves:       collectors[0].(*prometheus.CounterVec),
		saveLatency: collectors[1].(*prometheus.HistogramVec),
		conflicts:   collectors[2].(*prometheus.CounterVec),
		lookups:     collectors[3].(*prometheus.CounterVec),
	}, nil
}

// RecordSave increments the save counter and observes its latency.
func (s *PromSink) RecordSave(ev coremetrics.SaveEvent) error {
	s.saves.WithLabelValues(ev.FacilityID, strconv.FormatBool(ev.Created), ev.Outcome).Inc()
	s.saveLatency.WithLabelValues(ev.FacilityID, ev.Outcome).Observe(ev.Duration.Seconds())
	return nil
}

// RecordConflict counts one conflict-prompt resolution.
func (s *PromSink) RecordConflict(ev coremetrics.ConflictEvent) error {
	s.conflicts.WithLabelValues(ev.Resolution).Inc()
	return nil
}

// RecordLookup counts one period lookup by outcome.
func (s *PromSink) RecordLookup(ev coremetrics.LookupEvent) error {
	s.lookups.WithLabelValues(ev.Mode, ev.Result).Inc()
	return nil
}
