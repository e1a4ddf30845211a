package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives planning measurements.
type Recorder interface {
	RecordRun()
	RecordGroup(clusters int, duration time.Duration)
	RecordWarning(kind string)
	RecordTwoOptMoves(moves int)
}

// NopRecorder discards all measurements.
type NopRecorder struct{}

func (NopRecorder) RecordRun()                     {}
func (NopRecorder) RecordGroup(int, time.Duration) {}
func (NopRecorder) RecordWarning(string)           {}
func (NopRecorder) RecordTwoOptMoves(int)          {}

// PromRecorder records planning measurements in Prometheus metrics.
type PromRecorder struct {
	runs          prometheus.Counter
	groups        prometheus.Counter
	clusters      prometheus.Counter
	warnings      *prometheus.CounterVec
	moves         prometheus.Counter
	groupDuration prometheus.Histogram
}

// NewPromRecorder registers the planner metrics on reg. If reg is nil, the
// default registerer is used. Collectors that are already registered are reused.
func NewPromRecorder(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &PromRecorder{
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_runs_total",
			Help: "Total number of planning runs",
		}),
		groups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_groups_planned_total",
			Help: "Total number of facility groups planned",
		}),
		clusters: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_clusters_total",
			Help: "Total number of clusters detected",
		}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_warnings_total",
			Help: "Total number of planning warnings by kind",
		}, []string{"kind"}),
		moves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_two_opt_moves_total",
			Help: "Total number of accepted 2-opt reversals",
		}),
		groupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "planner_group_duration_seconds",
			Help:    "Time spent planning one facility group",
			Buckets: prometheus.DefBuckets,
		}),
	}

	var err error
	if r.runs, err = register(reg, r.runs); err != nil {
		return nil, err
	}
	if r.groups, err = register(reg, r.groups); err != nil {
		return nil, err
	}
	if r.clusters, err = register(reg, r.clusters); err != nil {
		return nil, err
	}
	if r.warnings, err = register(reg, r.warnings); err != nil {
		return nil, err
	}
	if r.moves, err = register(reg, r.moves); err != nil {
		return nil, err
	}
	if r.groupDuration, err = register(reg, r.groupDuration); err != nil {
		return nil, err
	}
	return r, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (r *PromRecorder) RecordRun() {
	r.runs.Inc()
}

func (r *PromRecorder) RecordGroup(clusters int, duration time.Duration) {
	r.groups.Inc()
	r.clusters.Add(float64(clusters))
	r.groupDuration.Observe(duration.Seconds())
}

func (r *PromRecorder) RecordWarning(kind string) {
	r.warnings.WithLabelValues(kind).Inc()
}

func (r *PromRecorder) RecordTwoOptMoves(moves int) {
	r.moves.Add(float64(moves))
}
